// ABOUTME: Version and product identification
// ABOUTME: Reported in control handshakes, mDNS records and the CLI
package version

const (
	// Version is the software version
	Version = "0.3.0"

	// Product is the product name
	Product = "CalmTV Player"

	// Manufacturer identifies who builds the player
	Manufacturer = "CalmTV"
)
