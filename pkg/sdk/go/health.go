// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
)

func (sdk tqSDK) Health(ctx context.Context) (telequery.HealthInfo, errors.SDKError) {
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodGet, sdk.healthURL, nil, nil, http.StatusOK)
	if sdkerr != nil {
		return telequery.HealthInfo{}, sdkerr
	}

	var h telequery.HealthInfo
	if err := json.Unmarshal(body, &h); err != nil {
		return telequery.HealthInfo{}, errors.NewSDKError(err)
	}

	return h, nil
}
