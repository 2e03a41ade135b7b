// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
	"github.com/absmach/telequery/pkg/ndjson"
)

func (sdk tqSDK) Query(ctx context.Context, payload Payload) ([]telequery.Record, errors.SDKError) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewSDKError(errors.Wrap(ErrMalformedPayload, err))
	}

	_, body, sdkerr := sdk.processRequest(ctx, http.MethodPost, sdk.queryURL, data, nil, http.StatusOK)
	if sdkerr != nil {
		return nil, sdkerr
	}

	records, err := ndjson.Decode(body)
	if err != nil {
		return nil, errors.NewSDKErrorWithStatus(err, http.StatusOK)
	}

	return records, nil
}
