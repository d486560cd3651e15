package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tahfidz Academy API",
        "description": "Recitation review pipeline: tickets, personal mushaf and assignments.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Tickets",
            "description": "Recitation ticket review"
        },
        {
            "name": "Mushaf",
            "description": "Personal mistake ledger"
        },
        {
            "name": "Assignments",
            "description": "Synthesized homework"
        }
    ],
    "paths": {
        "/tickets": {
            "post": {
                "tags": [
                    "Tickets"
                ],
                "summary": "Submit a recitation ticket",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateTicketRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "get": {
                "tags": [
                    "Tickets"
                ],
                "summary": "List recitation tickets",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "teacherId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": "Comma separated: pending,approved,rejected"
                    },
                    {
                        "name": "workflowStep",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/tickets/{id}": {
            "get": {
                "tags": [
                    "Tickets"
                ],
                "summary": "Get a recitation ticket",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Ticket ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/tickets/{id}/approve": {
            "post": {
                "tags": [
                    "Tickets"
                ],
                "summary": "Approve a pending ticket",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Ticket ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/ApproveTicketRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ApproveTicketEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Ticket not pending or ledger modified concurrently",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "description": "Merges the ticket's mistakes into the personal mushaf, then completes the linked assignment or synthesizes a new one."
            }
        },
        "/tickets/{id}/reject": {
            "post": {
                "tags": [
                    "Tickets"
                ],
                "summary": "Reject a pending ticket",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Ticket ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/RejectTicketRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Ticket not pending",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{id}/mushaf": {
            "get": {
                "tags": [
                    "Mushaf"
                ],
                "summary": "Get a student's personal mushaf",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    },
                    {
                        "name": "workflowStep",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "sabq",
                            "sabqi",
                            "manzil"
                        ]
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "recency",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "today",
                            "recent",
                            "historical"
                        ]
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "category",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "tajweed",
                            "letter",
                            "stop",
                            "memory",
                            "other"
                        ]
                    },
                    {
                        "name": "resolved",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{id}/mushaf/insights": {
            "get": {
                "tags": [
                    "Mushaf"
                ],
                "summary": "Get personal mushaf insights",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    },
                    {
                        "name": "workflowStep",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "sabq",
                            "sabqi",
                            "manzil"
                        ]
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "recency",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "today",
                            "recent",
                            "historical"
                        ]
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "category",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "tajweed",
                            "letter",
                            "stop",
                            "memory",
                            "other"
                        ]
                    },
                    {
                        "name": "resolved",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{id}/mushaf/export": {
            "get": {
                "tags": [
                    "Mushaf"
                ],
                "summary": "Export a personal mushaf",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ]
                    },
                    {
                        "name": "workflowStep",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "sabq",
                            "sabqi",
                            "manzil"
                        ]
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "recency",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "today",
                            "recent",
                            "historical"
                        ]
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "category",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "tajweed",
                            "letter",
                            "stop",
                            "memory",
                            "other"
                        ]
                    },
                    {
                        "name": "resolved",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File download",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/students/{id}/mushaf/entries/{entryId}/resolve": {
            "post": {
                "tags": [
                    "Mushaf"
                ],
                "summary": "Resolve a personal mushaf entry",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    },
                    {
                        "name": "entryId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{id}/assignments": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "List a student's assignments",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "active",
                            "completed",
                            "archived"
                        ]
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Get an assignment",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "RecitationRange": {
            "type": "object",
            "properties": {
                "surah": {
                    "type": "integer"
                },
                "surahName": {
                    "type": "string"
                },
                "ayahFrom": {
                    "type": "integer"
                },
                "ayahTo": {
                    "type": "integer"
                },
                "endSurah": {
                    "type": "integer"
                },
                "endSurahName": {
                    "type": "string"
                },
                "juz": {
                    "type": "integer"
                },
                "note": {
                    "type": "string"
                }
            }
        },
        "MistakeRecord": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "page": {
                    "type": "integer"
                },
                "surah": {
                    "type": "integer"
                },
                "ayah": {
                    "type": "integer"
                },
                "wordIndex": {
                    "type": "integer"
                },
                "position": {
                    "type": "object",
                    "properties": {
                        "x": {
                            "type": "number"
                        },
                        "y": {
                            "type": "number"
                        }
                    }
                },
                "note": {
                    "type": "string"
                },
                "letterIndex": {
                    "type": "integer"
                },
                "tajweedData": {
                    "type": "object"
                },
                "audioUrl": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                }
            },
            "required": [
                "type",
                "category"
            ]
        },
        "SabqEntry": {
            "type": "object",
            "properties": {
                "recitationRange": {
                    "$ref": "#/definitions/RecitationRange"
                },
                "mistakes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/MistakeRecord"
                    }
                },
                "comment": {
                    "type": "string"
                }
            }
        },
        "CreateTicketRequest": {
            "type": "object",
            "required": [
                "studentId",
                "teacherId",
                "workflowStep"
            ],
            "properties": {
                "studentId": {
                    "type": "string"
                },
                "teacherId": {
                    "type": "string"
                },
                "workflowStep": {
                    "type": "string",
                    "enum": [
                        "sabq",
                        "sabqi",
                        "manzil"
                    ]
                },
                "recitationRange": {
                    "$ref": "#/definitions/RecitationRange"
                },
                "sabqEntries": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SabqEntry"
                    }
                },
                "homeworkRange": {
                    "$ref": "#/definitions/RecitationRange"
                },
                "mistakes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/MistakeRecord"
                    }
                },
                "assignmentId": {
                    "type": "string"
                }
            }
        },
        "HomeworkAssignmentData": {
            "type": "object",
            "required": [
                "instructions"
            ],
            "properties": {
                "instructions": {
                    "type": "string"
                },
                "dueDate": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "ApproveTicketRequest": {
            "type": "object",
            "properties": {
                "reviewNotes": {
                    "type": "string"
                },
                "homeworkAssignmentData": {
                    "$ref": "#/definitions/HomeworkAssignmentData"
                }
            }
        },
        "RejectTicketRequest": {
            "type": "object",
            "properties": {
                "reviewNotes": {
                    "type": "string"
                }
            }
        },
        "ApproveTicketResult": {
            "type": "object",
            "properties": {
                "ticket": {
                    "type": "object"
                },
                "homeworkAssignmentId": {
                    "type": "string"
                },
                "mergedMistakes": {
                    "type": "integer"
                },
                "skippedMistakes": {
                    "type": "integer"
                }
            }
        },
        "ApproveTicketEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "$ref": "#/definitions/ApproveTicketResult"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
