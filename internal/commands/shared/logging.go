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

package shared

import (
	"io"
	"log/slog"

	"github.com/tombee/swapflow/internal/config"
	"github.com/tombee/swapflow/internal/log"
)

// NewLogger builds the command logger from cfg. --verbose forces debug and
// --quiet forces error; the environment wins over the config file.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	lc := cfg.LoggerConfig()
	env := log.FromEnv()
	if env.Level != log.DefaultConfig().Level {
		lc.Level = env.Level
	}
	if env.AddSource {
		lc.AddSource = true
	}

	switch {
	case GetVerbose():
		lc.Level = "debug"
	case GetQuiet():
		lc.Level = "error"
	}
	lc.Output = w
	return log.New(lc)
}
