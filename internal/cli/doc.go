// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package cli provides the root command for the swapflow CLI.

This package creates the Cobra root command and handles global concerns like
version information, persistent flags, and exit codes. Individual commands
are implemented in the internal/commands subpackages.

# Command Tree

	swapflow
	├── run           Dispatch a batch of items against the trading API
	├── operations    List operations and their parameters
	├── secrets       Manage the stored API key
	├── version       Show version
	└── help          Show help (supports --json)

# Global Flags

	--verbose, -v    Enable debug logging
	--quiet, -q      Only log errors
	--json           Output in JSON format
	--config         Path to config file

# Exit Codes

  - 0: success
  - 1: a fail-fast run aborted, or any other failure
  - 2: unreadable items file, bad flags or invalid configuration
  - 4: missing or malformed credential
*/
package cli
