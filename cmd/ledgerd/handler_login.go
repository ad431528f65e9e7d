// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
)

// loginHandler authenticates a companion app and checks the
// workspace's version hasn't changed since startup.
type loginHandler struct {
	svc *Service
}

type loginRequest struct {
	App   string `json:"app"`
	Token string `json:"token"`
}

type loginResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

func (h *loginHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	if function != "login" {
		return successEnvelope(), nil
	}

	var req loginRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}

	if !h.svc.versions.CheckVersion() {
		return loginResponse{Status: 2, Msg: "version mismatch"}, nil
	}

	if !h.svc.tokens.Verify(ctx, req.App, req.Token) {
		return loginResponse{Status: 1, Msg: "invalid token"}, nil
	}

	return loginResponse{Status: 0, Msg: "ok"}, nil
}
