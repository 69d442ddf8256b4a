// curriculated is the operational CLI for the curriculum content
// platform.
//
// # Quick Start
//
//	# Generate a data key for encryption
//	export PLATFORM_DATA_KEY="$(curriculated data-key generate)"
//
//	# Run database migrations
//	curriculated db migrate
//
//	# Install system types, default tenant and roles
//	curriculated bootstrap
//
//	# Start the server
//	curriculated server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - PLATFORM_DATA_KEY: Base64-encoded 256-bit key for secret encryption
//   - PLATFORM_CONFIG_PATH: Directory holding platform.yml
//   - KB_ROOT: Knowledge base root directory
package main
