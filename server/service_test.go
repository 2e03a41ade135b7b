// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package server_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
	"github.com/absmach/telequery/server/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const secret = "secret"

func TestQuery(t *testing.T) {
	repo := new(mocks.Repository)
	svc := server.NewService(repo, secret)

	records := []telequery.Record{{"deviceID": "s1", "val1": 1.0}}
	valid := sdk.Payload{
		Auth:    sdk.Auth{Target: "site-1", AuthType: "key", SecretKey: secret},
		Request: sdk.Request{Method: sdk.MethodQuery, Sort: sdk.Sort{}.Asc("time")},
	}

	cases := []struct {
		desc    string
		payload sdk.Payload
		repoErr error
		records []telequery.Record
		err     error
	}{
		{
			desc:    "query records",
			payload: valid,
			records: records,
		},
		{
			desc: "query with wrong secret",
			payload: sdk.Payload{
				Auth:    sdk.Auth{SecretKey: "wrong"},
				Request: valid.Request,
			},
			err: errors.ErrAuthentication,
		},
		{
			desc: "query with unsupported method",
			payload: sdk.Payload{
				Auth:    valid.Auth,
				Request: sdk.Request{Method: "insert"},
			},
			err: server.ErrUnsupportedMethod,
		},
		{
			desc: "query with invalid sort",
			payload: sdk.Payload{
				Auth:    valid.Auth,
				Request: sdk.Request{Method: sdk.MethodQuery, Sort: sdk.Sort{{Field: "time", Direction: 3}}},
			},
			err: errors.ErrMalformedEntity,
		},
		{
			desc:    "query with repository failure",
			payload: valid,
			repoErr: errors.New("connection lost"),
			err:     server.ErrQueryRecords,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			repoCall := repo.On("Query", context.Background(), mock.Anything).Return(tc.records, tc.repoErr)
			recs, err := svc.Query(context.Background(), tc.payload)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
			assert.Equal(t, tc.records, recs)
			repoCall.Unset()
		})
	}
}

func TestQueryWithoutSecret(t *testing.T) {
	repo := new(mocks.Repository)
	svc := server.NewService(repo, "")

	repo.On("Query", context.Background(), mock.Anything).Return([]telequery.Record{}, nil)
	_, err := svc.Query(context.Background(), sdk.Payload{Request: sdk.Request{Method: sdk.MethodQuery}})
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
}
