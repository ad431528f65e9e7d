// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/autoledger/ledgerd/lib/storage"
)

const serverApp = "server"

// jsHandler drives the sandbox: analyze turns a raw companion capture
// into a classified billInfo row by running two rounds of
// user-supplied script through lib/sandbox; run evaluates an
// arbitrary snippet directly.
type jsHandler struct {
	svc *Service
}

type analyzeRequest struct {
	Data string `json:"data"`
	App  string `json:"app"`
	Type int    `json:"type"`
	Call int    `json:"call"`
}

func (h *jsHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	switch function {
	case "analyze":
		var req analyzeRequest
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		return h.analyze(ctx, req)

	case "run":
		var req struct {
			JS string `json:"js"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		// Unlike analyze's internal script steps, which log a sandbox
		// failure and carry on with a neutral result, a direct js/run
		// call has no further processing to fall back to, so the
		// caller gets the sandbox error as the request's own error.
		result, err := h.svc.sandbox.EvalError(req.JS)
		if err != nil {
			return nil, fmt.Errorf("js/run: %w", err)
		}
		return result, nil

	default:
		return successEnvelope(), nil
	}
}

func (h *jsHandler) analyze(ctx context.Context, req analyzeRequest) (any, error) {
	engine := h.svc.engine
	logger := h.svc.logger

	var provisionalID int64
	if req.Call == 1 {
		provisionalID = engine.Insert(ctx, appDataTable, storage.Row{
			"data":   req.Data,
			"source": req.App,
			"type":   req.Type,
			"match":  0,
			"rule":   "",
		})
	}

	ruleKey := fmt.Sprintf("%s%d_rule", req.App, req.Type)
	ruleScript := settingValue(ctx, engine, serverApp, ruleKey)
	if ruleScript == "" {
		logger.Error("js/analyze: no rule script configured", "key", ruleKey)
		return map[string]any{}, nil
	}

	// The preamble parses the raw capture into window.data for the
	// rule script to read. Older-style rule scripts print their own
	// result directly; newer ones register window.rules, each entry
	// exposing the rule object under .obj, and rely on this epilogue
	// to walk them and print the first match with positive money. Both
	// forms are supported since only the first print call is ever
	// captured.
	extractionSource := fmt.Sprintf(`
var window = { data: JSON.parse(%s) };
%s
if (typeof window.rules !== "undefined") {
	for (var i = 0; i < window.rules.length; i++) {
		var result = window.rules[i].obj.get(window.data);
		if (result !== null && result !== undefined && result.money > 0) {
			result.ruleName = window.rules[i].name;
			print(JSON.stringify(result));
			break;
		}
	}
}
`, jsonLiteral(req.Data), ruleScript)

	extracted := h.svc.sandbox.Eval(extractionSource)
	var record map[string]any
	if err := json.Unmarshal([]byte(extracted), &record); err != nil {
		logger.Error("js/analyze: parsing rule script result failed", "error", err, "result", extracted)
		return map[string]any{}, nil
	}

	channel, _ := record["channel"].(string)
	ruleName := strings.TrimSpace(channel)
	if idx := strings.IndexByte(ruleName, '-'); idx >= 0 {
		ruleName = strings.TrimSpace(ruleName[:idx])
	}

	if provisionalID != 0 {
		// Update replaces every non-primary-key column with what's in
		// the row passed to it, so a bare {match, rule} row would wipe
		// data/source/time/type/issue on the provisional row.
		if row, ok := engine.SelectByID(ctx, appDataTable, provisionalID); ok {
			row["match"] = 1
			row["rule"] = ruleName
			engine.Update(ctx, appDataTable, row, provisionalID)
		}
	}

	categoryScript := settingValue(ctx, engine, serverApp, "cate_js")
	customScript := settingValue(ctx, engine, serverApp, "custom_js")

	money, _ := record["money"].(float64)
	billType, _ := record["type"].(float64)
	shopName, _ := record["shopName"].(string)
	shopItem, _ := record["shopItem"].(string)
	billTime, _ := record["time"].(float64)

	categorySource := fmt.Sprintf(`
var money = %s, type = %s, shopName = %s, shopItem = %s, time = %s;
function getCategory(money, type, shopName, shopItem, time) {
%s
return null;
}
var categoryInfo = getCategory(money, type, shopName, shopItem, time);
if (categoryInfo !== null) {
	print(JSON.stringify(categoryInfo));
} else {
%s
	if (typeof category !== "undefined") {
		print(JSON.stringify(category.get(money, type, shopName, shopItem, time)));
	}
}
`,
		jsonNumber(money), jsonNumber(billType), jsonLiteral(shopName), jsonLiteral(shopItem), jsonNumber(billTime),
		customScript, categoryScript)

	categoryResult := h.svc.sandbox.Eval(categorySource)
	var categoryRecord map[string]any
	if err := json.Unmarshal([]byte(categoryResult), &categoryRecord); err != nil {
		logger.Error("js/analyze: parsing category script result failed", "error", err, "result", categoryResult)
		categoryRecord = map[string]any{}
	}

	auto := 0
	if rule, ok := ruleByName(ctx, engine, ruleName); ok {
		if v, ok := rule["auto_record"].(int64); ok {
			auto = int(v)
		}
	}

	// Enrich the record in place rather than rebuilding it from a fixed
	// field list, so extraction fields the rule script added beyond the
	// ones this handler inspects (fee, currency, accountNameFrom/To,
	// remark, ...) survive into the stored billInfo row.
	enriched := make(map[string]any, len(record)+6)
	for k, v := range record {
		enriched[k] = v
	}
	enriched["type"] = int(billType)
	enriched["money"] = money
	enriched["shopName"] = shopName
	enriched["shopItem"] = shopItem
	enriched["channel"] = channel
	enriched["time"] = int64(billTime)
	enriched["fromApp"] = req.App
	enriched["auto"] = auto
	enriched["bookName"] = categoryRecord["book"]
	enriched["cateName"] = categoryRecord["category"]

	if req.Call == 1 {
		id := engine.Insert(ctx, billInfoTable, rowFromEnriched(enriched))
		h.svc.notifier.Notify(ctx, id)
		enriched["id"] = id
	}

	return enriched, nil
}

func rowFromEnriched(enriched map[string]any) storage.Row {
	row := make(storage.Row, len(enriched))
	for k, v := range enriched {
		row[k] = v
	}
	return row
}

// jsonLiteral renders s as a double-quoted JavaScript string literal.
func jsonLiteral(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}

// jsonNumber renders f as a JavaScript numeric literal.
func jsonNumber(f float64) string {
	encoded, _ := json.Marshal(f)
	return string(encoded)
}
