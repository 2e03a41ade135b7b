// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/absmach/telequery"
)

var _ telequery.Response = (*queryRes)(nil)

type queryRes struct {
	records []telequery.Record
}

func (res queryRes) Code() int {
	return http.StatusOK
}

func (res queryRes) Headers() map[string]string {
	return map[string]string{}
}

func (res queryRes) Empty() bool {
	return len(res.records) == 0
}
