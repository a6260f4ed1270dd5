// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. When environ is nil the process environment is used.
func parseEnv(cfg any, environ ...map[string]string) error {
	opts := env.Options{}
	if len(environ) > 0 && environ[0] != nil {
		opts.Environment = environ[0]
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
