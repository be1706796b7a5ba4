package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Weekly timetable generation for student groups, teachers and classrooms.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Timetable", "description": "Generation and timetable reads"},
        {"name": "Preferences", "description": "Teacher availability and load caps"},
        {"name": "System", "description": "Health and metrics"}
    ],
    "paths": {
        "/generate-timetable": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate the weekly timetable",
                "description": "Allocates every student group's week and replaces the active timetable.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GenerateTimetableResponse"}},
                    "400": {"description": "No teachers, no classrooms or nothing allocated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Run failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generate-timetable/async": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Queue a timetable generation",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Asynchronous generation disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get the active timetable",
                "parameters": [
                    {"name": "studentGroupId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimetableResponse"}},
                    "404": {"description": "No timetable generated yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/teachers/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get a teacher's schedule in the active timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherScheduleResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download the active timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "studentGroupId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/runs/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get a generation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Get teacher preferences",
                "description": "Teachers read their own preferences; managers pass teacher_id.",
                "parameters": [
                    {"name": "teacher_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Preferences"],
                "summary": "Save teacher preferences",
                "parameters": [
                    {"name": "teacher_id", "in": "query", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTeacherPreferenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["System"],
                "summary": "System metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "timeSlot": {"type": "string"},
                "teacher": {"type": "string"},
                "subject": {"type": "string"},
                "classroom": {"type": "string"}
            }
        },
        "GroupTimetable": {
            "type": "object",
            "properties": {
                "studentGroupId": {"type": "string"},
                "studentGroup": {"type": "string"},
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntry"}},
                "unfilledCells": {"type": "integer"}
            }
        },
        "GenerationStats": {
            "type": "object",
            "properties": {
                "totalStudentGroups": {"type": "integer"},
                "totalSlots": {"type": "integer"},
                "unfilledCells": {"type": "integer"},
                "continuedSlots": {"type": "integer"},
                "cellsPerGroup": {"type": "integer"},
                "durationMs": {"type": "integer"},
                "capScope": {"type": "string"},
                "cellOrder": {"type": "string"}
            }
        },
        "GenerateTimetableResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "timetableId": {"type": "string"},
                "timetable": {"type": "array", "items": {"$ref": "#/definitions/GroupTimetable"}},
                "stats": {"$ref": "#/definitions/GenerationStats"}
            }
        },
        "TimetableResponse": {
            "type": "object",
            "properties": {
                "timetableId": {"type": "string"},
                "academicYear": {"type": "integer"},
                "semester": {"type": "integer"},
                "generatedAt": {"type": "string", "format": "date-time"},
                "timetable": {"type": "array", "items": {"$ref": "#/definitions/GroupTimetable"}}
            }
        },
        "TeacherScheduleResponse": {
            "type": "object",
            "properties": {
                "timetableId": {"type": "string"},
                "teacherId": {"type": "string"},
                "teacher": {"type": "string"},
                "schedule": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "day": {"type": "string"},
                            "timeSlot": {"type": "string"},
                            "subject": {"type": "string"},
                            "studentGroup": {"type": "string"},
                            "room": {"type": "string"}
                        }
                    }
                }
            }
        },
        "UpsertTeacherPreferenceRequest": {
            "type": "object",
            "required": ["maxSlotsPerDay", "maxSlotsPerWeek"],
            "properties": {
                "availableTimeSlots": {
                    "type": "object",
                    "description": "Day name to time slot to level (preferred, available, not-available or 1, 0, -1)",
                    "additionalProperties": {"type": "object", "additionalProperties": {"type": "string"}}
                },
                "maxSlotsPerDay": {"type": "integer", "minimum": 1, "maximum": 8},
                "maxSlotsPerWeek": {"type": "integer", "maximum": 40}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
