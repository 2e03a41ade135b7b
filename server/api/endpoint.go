// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/absmach/telequery/pkg/apiutil"
	"github.com/absmach/telequery/pkg/errors"
	"github.com/absmach/telequery/server"
	"github.com/go-kit/kit/endpoint"
)

func queryEndpoint(svc server.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(queryReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		records, err := svc.Query(ctx, req.payload)
		if err != nil {
			return nil, err
		}

		return queryRes{records: records}, nil
	}
}
