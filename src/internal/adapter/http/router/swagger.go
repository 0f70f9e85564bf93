package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func registerSwaggerRoutes(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	r.Get("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	r.Get("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Movement Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Movement Ledger API",
    "version": "1.0.0"
  },
  "paths": {
    "/direct-debits": {
      "post": {
        "summary": "Create direct debit",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-User-ID",
            "in": "header",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": [
                  "sourceIban",
                  "destinationIban",
                  "amount"
                ],
                "properties": {
                  "sourceIban": {
                    "type": "string",
                    "pattern": "^[0-9A-Z]{15,34}$"
                  },
                  "destinationIban": {
                    "type": "string",
                    "pattern": "^[0-9A-Z]{15,34}$"
                  },
                  "amount": {
                    "type": "string",
                    "example": "100.00"
                  },
                  "creditorName": {
                    "type": "string"
                  },
                  "creditorId": {
                    "type": "string"
                  },
                  "periodicity": {
                    "type": "string",
                    "enum": [
                      "WEEKLY",
                      "MONTHLY",
                      "QUARTERLY",
                      "YEARLY"
                    ]
                  }
                }
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "403": {
            "description": "IBAN not owned by caller"
          },
          "404": {
            "description": "Owner, account or card not found"
          },
          "409": {
            "description": "Concurrent update"
          },
          "422": {
            "description": "Business rule violation"
          },
          "500": {
            "description": "Server error"
          }
        }
      }
    },
    "/payroll-deposits": {
      "post": {
        "summary": "Create payroll deposit",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-User-ID",
            "in": "header",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": [
                  "sourceIban",
                  "destinationIban",
                  "amount",
                  "companyTaxId"
                ],
                "properties": {
                  "sourceIban": {
                    "type": "string",
                    "pattern": "^[0-9A-Z]{15,34}$"
                  },
                  "destinationIban": {
                    "type": "string",
                    "pattern": "^[0-9A-Z]{15,34}$"
                  },
                  "amount": {
                    "type": "string",
                    "example": "100.00"
                  },
                  "companyName": {
                    "type": "string"
                  },
                  "companyTaxId": {
                    "type": "string",
                    "pattern": "^[A-HJ-NP-SUVW][0-9]{7}[0-9A-J]$"
                  }
                }
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "403": {
            "description": "IBAN not owned by caller"
          },
          "404": {
            "description": "Owner, account or card not found"
          },
          "409": {
            "description": "Concurrent update"
          },
          "422": {
            "description": "Business rule violation"
          },
          "500": {
            "description": "Server error"
          }
        }
      }
    },
    "/card-payments": {
      "post": {
        "summary": "Create card payment",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-User-ID",
            "in": "header",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": [
                  "cardNumber",
                  "amount"
                ],
                "properties": {
                  "cardNumber": {
                    "type": "string",
                    "pattern": "^[0-9]{16}$"
                  },
                  "merchantName": {
                    "type": "string"
                  },
                  "amount": {
                    "type": "string",
                    "example": "100.00"
                  },
                  "cvv": {
                    "type": "string"
                  }
                }
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "403": {
            "description": "IBAN not owned by caller"
          },
          "404": {
            "description": "Owner, account or card not found"
          },
          "409": {
            "description": "Concurrent update"
          },
          "422": {
            "description": "Business rule violation"
          },
          "500": {
            "description": "Server error"
          }
        }
      }
    },
    "/transfers": {
      "post": {
        "summary": "Create transfer",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-User-ID",
            "in": "header",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": [
                  "sourceIban",
                  "destinationIban",
                  "amount"
                ],
                "properties": {
                  "sourceIban": {
                    "type": "string",
                    "pattern": "^[0-9A-Z]{15,34}$"
                  },
                  "destinationIban": {
                    "type": "string",
                    "pattern": "^[0-9A-Z]{15,34}$"
                  },
                  "amount": {
                    "type": "string",
                    "example": "100.00"
                  },
                  "beneficiaryName": {
                    "type": "string"
                  }
                }
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "403": {
            "description": "IBAN not owned by caller"
          },
          "404": {
            "description": "Owner, account or card not found"
          },
          "409": {
            "description": "Concurrent update"
          },
          "422": {
            "description": "Business rule violation"
          },
          "500": {
            "description": "Server error"
          }
        }
      }
    },
    "/transfers/{id}/revoke": {
      "post": {
        "summary": "Revoke a transfer within its revocation window",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-User-ID",
            "in": "header",
            "required": true,
            "schema": {
              "type": "string"
            }
          },
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "Revoked"
          },
          "401": {
            "description": "Unauthorized"
          },
          "403": {
            "description": "Transfer not owned by caller"
          },
          "404": {
            "description": "Movement not found"
          },
          "422": {
            "description": "Window expired, not a transfer or insufficient funds"
          },
          "500": {
            "description": "Consistency fault"
          }
        }
      }
    },
    "/movements": {
      "get": {
        "summary": "List the caller's movements, newest first",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-User-ID",
            "in": "header",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "Movements"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Owner not found"
          }
        }
      }
    },
    "/notifications/ws": {
      "get": {
        "summary": "Websocket stream of movement notifications",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "user",
            "in": "query",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "101": {
            "description": "Switching protocols"
          },
          "400": {
            "description": "Missing user"
          }
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Liveness probe",
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    }
  }
}`
