// Package docs registra a especificação Swagger servida em /swagger/*.
// Regenerar com: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Suporte QuizSalon"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Cadastra um novo jogador",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/usecases.RegisterOutput"}},
                    "400": {"description": "Erro de validação"},
                    "409": {"description": "Email já cadastrado"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Autentica um jogador",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecases.LoginOutput"}},
                    "401": {"description": "Credenciais inválidas"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Retorna o perfil do jogador logado",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/player.Profile"}},
                    "401": {"description": "Não autenticado"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Renova o token",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecases.LoginOutput"}},
                    "401": {"description": "Não autenticado"}
                }
            }
        },
        "/salons": {
            "get": {
                "tags": ["Salons"],
                "summary": "Lista os salões abertos",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/salon.Room"}}}
                }
            }
        },
        "/salons/{id}": {
            "get": {
                "tags": ["Salons"],
                "summary": "Obtém dados do salão",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/salon.Room"}},
                    "404": {"description": "Salão não encontrado"}
                }
            }
        },
        "/salons/{id}/qrcode": {
            "get": {
                "tags": ["Salons"],
                "summary": "QR code de convite",
                "produces": ["image/png"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "PNG"},
                    "404": {"description": "Salão não encontrado"}
                }
            }
        },
        "/profile/historique": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Histórico de partidas",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/history.Record"}}}
                }
            }
        },
        "/profile": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Edita o perfil",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.UpdateProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/player.Profile"}},
                    "400": {"description": "Pseudo ausente"},
                    "404": {"description": "Avatar não encontrado"}
                }
            }
        },
        "/avatar": {
            "get": {
                "tags": ["Profile"],
                "summary": "Catálogo de avatares",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/player.Avatar"}}}
                }
            }
        },
        "/amis": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Friends"],
                "summary": "Lista os amigos",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/player.Profile"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Friends"],
                "summary": "Envia um pedido de amizade",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.FriendRequestInput"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Perfil não encontrado"},
                    "409": {"description": "Pedido ou amizade já existe"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Friends"],
                "summary": "Remove um amigo",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.RemoveFriendInput"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "idAmi ausente"}
                }
            }
        },
        "/amis/demande": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Friends"],
                "summary": "Pedidos recebidos pendentes",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/player.Profile"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Friends"],
                "summary": "Responde a um pedido de amizade",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.FriendResponseInput"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Ação inválida"},
                    "404": {"description": "Pedido não encontrado"}
                }
            }
        },
        "/normal/aleatoire/question": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Solo"],
                "summary": "Sorteia perguntas para o modo solo",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "niveauDifficulte", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/quiz.Question"}}},
                    "400": {"description": "Nível inválido"}
                }
            }
        },
        "/verifier-reponse": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Solo"],
                "summary": "Corrige uma resposta do modo solo",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/usecases.SoloAnswerInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/quiz.Result"}},
                    "400": {"description": "Submissão inválida"},
                    "404": {"description": "Pergunta não encontrada"}
                }
            }
        },
        "/questions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Questions"],
                "summary": "Lista as perguntas de um nível",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "difficulte", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/quiz.Question"}}},
                    "400": {"description": "Nível inválido"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Questions"],
                "summary": "Cadastra uma pergunta",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/quiz.Draft"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Dados inválidos"}
                }
            }
        }
    },
    "definitions": {
        "usecases.RegisterInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "pseudo": {"type": "string"}
            }
        },
        "usecases.RegisterOutput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "profileId": {"type": "integer"},
                "pseudo": {"type": "string"}
            }
        },
        "usecases.LoginInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "usecases.LoginOutput": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "expiresIn": {"type": "integer"}
            }
        },
        "player.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "pseudo": {"type": "string"},
                "avatar": {"type": "string"},
                "elo": {"type": "integer"}
            }
        },
        "player.Avatar": {
            "type": "object",
            "properties": {
                "idAvatar": {"type": "integer"},
                "urlAvatar": {"type": "string"}
            }
        },
        "usecases.UpdateProfileInput": {
            "type": "object",
            "properties": {
                "pseudo": {"type": "string"},
                "idAvatar": {"type": "integer"}
            }
        },
        "usecases.FriendRequestInput": {
            "type": "object",
            "properties": {
                "pseudoProfileReceveur": {"type": "string"}
            }
        },
        "usecases.FriendResponseInput": {
            "type": "object",
            "properties": {
                "idDemandeur": {"type": "integer"},
                "action": {"type": "string", "enum": ["accepter", "refuser"]}
            }
        },
        "usecases.RemoveFriendInput": {
            "type": "object",
            "properties": {
                "idAmi": {"type": "integer"}
            }
        },
        "usecases.SoloAnswerInput": {
            "type": "object",
            "properties": {
                "questionId": {"type": "integer"},
                "answerId": {"type": "integer"},
                "answerText": {"type": "string"},
                "elapsedSeconds": {"type": "number"},
                "type": {"type": "string", "enum": ["qcm", "input"]}
            }
        },
        "quiz.Result": {
            "type": "object",
            "properties": {
                "correct": {"type": "boolean"},
                "misspelled": {"type": "boolean"},
                "distance": {"type": "integer"},
                "malus": {"type": "integer"},
                "elapsedSeconds": {"type": "number"},
                "pointsGagnes": {"type": "integer"},
                "bonneReponse": {"type": "string"}
            }
        },
        "salon.Room": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "label": {"type": "string"},
                "difficulte": {"type": "integer"},
                "type": {"type": "string"},
                "j_max": {"type": "integer"},
                "j_actuelle": {"type": "integer"},
                "commence": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "history.Record": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "idProfile": {"type": "integer"},
                "score": {"type": "integer"},
                "datePartie": {"type": "string"}
            }
        },
        "quiz.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "label": {"type": "string"},
                "niveauDifficulte": {"type": "integer"},
                "type": {"type": "string"},
                "reponses": {"type": "array", "items": {"$ref": "#/definitions/quiz.AnswerOption"}}
            }
        },
        "quiz.AnswerOption": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "label": {"type": "string"}
            }
        },
        "quiz.Draft": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "niveauDifficulte": {"type": "integer"},
                "reponses": {"type": "array", "items": {"type": "string"}},
                "bonneReponse": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo guarda as informações exportadas da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "QuizSalon API",
	Description:      "Backend do quiz multijogador em tempo real (salões, partidas, classement).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
