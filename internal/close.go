// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/absmach/telequery/logger"
)

const closeTimeout = 5 * time.Second

// Closer releases a resource within the given context deadline.
type Closer func(ctx context.Context) error

// Close releases the named resource and logs, instead of returning, any failure.
func Close(log logger.Logger, name string, closer Closer) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := closer(ctx); err != nil {
		log.Warn(fmt.Sprintf("failed to close %s: %s", name, err))
	}
}
