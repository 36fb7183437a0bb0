// Package http implements the HTTP handlers for the churn analytics web
// service. It is a thin layer between transport and the analytics services,
// keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all aggregation belongs in the service layer
//	5. Consistent patterns - standardized request/response handling
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → AnalyticsService → churn engine
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Response Envelopes
//
// Successful reads share one envelope:
//
//	{"status": "success", "data": ..., "count": N}
//
// A filter that matches no records is not a failure; analytics endpoints
// degrade to HTTP 200 with:
//
//	{"status": "no_data", "message": ..., "data": null, "count": 0}
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "validation_error",
//	    "title": "Validation Failed",
//	    "status": 400,
//	    "detail": "age_min must be at most 130",
//	    "instance": "/api/analytics/overview"
//	}
//
// An unknown segment key is a missing path resource (404); unknown numeric
// fields and export formats are bad query input (400).
//
// # Testing
//
// Handlers are tested using httptest:
//
//	- Stub service dependencies
//	- Test envelope and problem shapes
//	- Verify filter parsing and validation
//	- Check the no-data degradation path
package http
