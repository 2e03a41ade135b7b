// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/telequery"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
	"github.com/stretchr/testify/mock"
)

var _ server.Repository = (*Repository)(nil)

type Repository struct {
	mock.Mock
}

func (m *Repository) Query(ctx context.Context, req sdk.Request) ([]telequery.Record, error) {
	ret := m.Called(ctx, req)

	var records []telequery.Record
	if r := ret.Get(0); r != nil {
		records = r.([]telequery.Record)
	}

	return records, ret.Error(1)
}
