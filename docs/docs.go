// Package docs Red Cable Club API 文档
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {
            "get": {"tags": ["Common"], "summary": "健康检查", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/auth/dev-token": {
            "post": {"tags": ["Auth"], "summary": "签发调试 Token", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.DevTokenInput"}}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/membership/tiers": {
            "get": {"tags": ["Membership"], "summary": "会员等级表", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/membership/classify": {
            "get": {"tags": ["Membership"], "summary": "积分定级", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "points", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/membership/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Membership"], "summary": "我的会员等级", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/membership/stats": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Membership"], "summary": "等级分布", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/profile/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "我的档案", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/profiles": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "档案列表", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "创建档案", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateProfileInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/profiles/{id}/balance": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "调整余额", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BalanceInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/profiles/cache": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "清空档案缓存", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/coupons": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Coupon"], "summary": "我的优惠券", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "status", "in": "query", "enum": ["active", "redeemed"]}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Coupon"], "summary": "发放优惠券", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.IssueCouponInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/coupons/{id}/quote": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Coupon"], "summary": "优惠试算", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PriceInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/coupons/{id}/redeem": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Coupon"], "summary": "核销优惠券", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PriceInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        }
    },
    "definitions": {
        "handler.DevTokenInput": {"type": "object", "required": ["profileId"],
            "properties": {"profileId": {"type": "string"}}},
        "handler.CreateProfileInput": {"type": "object", "required": ["nickname"],
            "properties": {"nickname": {"type": "string"}, "points": {"type": "integer"}, "coins": {"type": "integer"}}},
        "handler.BalanceInput": {"type": "object",
            "properties": {"pointsDelta": {"type": "integer"}, "coinsDelta": {"type": "integer"}}},
        "handler.IssueCouponInput": {"type": "object", "required": ["userId", "code", "kind", "categories"],
            "properties": {"userId": {"type": "string"}, "code": {"type": "string"}, "description": {"type": "string"},
                "kind": {"type": "string", "enum": ["amount", "percentage"]},
                "amountOff": {"type": "string"}, "percentageOff": {"type": "string"},
                "categories": {"type": "array", "items": {"type": "string", "enum": ["Phone", "Audio", "Tablet", "Wearables", "Accessories"]}}}},
        "handler.PriceInput": {"type": "object", "required": ["category"],
            "properties": {"price": {"type": "string"}, "category": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Red Cable Club API",
	Description:      "会员等级、优惠券钱包与个人中心接口",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
