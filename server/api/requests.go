// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/absmach/telequery/pkg/apiutil"
	"github.com/absmach/telequery/pkg/errors"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
)

type queryReq struct {
	payload sdk.Payload
}

func (req queryReq) validate() error {
	if req.payload.Request.Method == "" {
		return errors.Wrap(apiutil.ErrMalformedPayload, errors.New("missing request method"))
	}

	return nil
}
