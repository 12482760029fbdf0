// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with `swag init -g cmd/main.go`.
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
    "paths": {
        "/players": {"get": {"tags": ["players"], "summary": "Список игроков", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/players/groups": {"get": {"tags": ["players"], "summary": "Группировка игроков", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/players/{playerID}": {"get": {"tags": ["players"], "summary": "Получить игрока по ID", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/country": {"get": {"tags": ["players"], "summary": "Страна игрока на дату", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}, {"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/winloss": {"get": {"tags": ["stats"], "summary": "Победы и поражения игрока", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/titles": {"get": {"tags": ["stats"], "summary": "Титулы и финалы", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/wl-index": {"get": {"tags": ["stats"], "summary": "WL-индекс", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/serve-return": {"get": {"tags": ["stats"], "summary": "Статистика подачи и приёма", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/opponents": {"get": {"tags": ["stats"], "summary": "Частые соперники", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/players/{playerID}/activity": {"get": {"tags": ["stats"], "summary": "Активность игрока", "parameters": [{"type": "string", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/countries": {"get": {"tags": ["countries"], "summary": "Список стран", "responses": {"200": {"description": "OK"}}}},
        "/tournaments": {"get": {"tags": ["tournaments"], "summary": "Список турниров", "responses": {"200": {"description": "OK"}}}},
        "/h2h/players": {"get": {"tags": ["h2h"], "summary": "Личные встречи: сводка", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/h2h/matches": {"get": {"tags": ["h2h"], "summary": "Личные встречи: матчи", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/h2h/grid": {"get": {"tags": ["h2h"], "summary": "Матрица личных встреч", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/events/{eventID}/entries": {"get": {"tags": ["events"], "summary": "Заявки турнира", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/events/{eventID}/seeds": {"get": {"tags": ["events"], "summary": "Посев турнира", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/events/{eventID}/entry-info": {"get": {"tags": ["events"], "summary": "Статусы заявок турнира", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/events/{eventID}/entry-info/sync": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Синхронизировать статусы заявок", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/events/{eventID}/points": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Пересчитать очки и призовые", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/entries": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["entries"], "summary": "Создать заявку", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["entries"], "summary": "Обновить заявку", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/entry-info": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["entries"], "summary": "Добавить статус заявки", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["entries"], "summary": "Обновить статус заявки", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/seeds": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["entries"], "summary": "Посеять заявку", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["entries"], "summary": "Изменить посев", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/integrity": {"get": {"tags": ["integrity"], "summary": "Проверка целостности данных", "responses": {"200": {"description": "OK"}}}},
        "/integrity/reports": {"post": {"security": [{"BearerAuth": []}], "tags": ["integrity"], "summary": "Выгрузить отчёт о целостности", "responses": {"201": {"description": "Created"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tennis History API",
	Description:      "Статистика и история теннисных турниров.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
