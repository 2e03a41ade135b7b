// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/stretchr/testify/mock"
)

var _ sdk.SDK = (*SDK)(nil)

type SDK struct {
	mock.Mock
}

func (m *SDK) Query(ctx context.Context, payload sdk.Payload) ([]telequery.Record, errors.SDKError) {
	ret := m.Called(ctx, payload)

	var records []telequery.Record
	if r := ret.Get(0); r != nil {
		records = r.([]telequery.Record)
	}

	return records, sdkErr(ret.Get(1))
}

func (m *SDK) Health(ctx context.Context) (telequery.HealthInfo, errors.SDKError) {
	ret := m.Called(ctx)

	return ret.Get(0).(telequery.HealthInfo), sdkErr(ret.Get(1))
}

func sdkErr(v interface{}) errors.SDKError {
	if v == nil {
		return nil
	}

	return v.(errors.SDKError)
}
