// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Logging

WithLogging wraps a handler and logs start/completion with duration:

	mux.HandleFunc("POST /polls", middleware.WithLogging(h.CreatePoll))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse writes a models.ErrorResponse envelope; handler code never
leaks internal error detail to clients.

# CORS

CORS wraps the whole mux. Credentials are allowed because the session
cookie must accompany vote requests from browser clients.
*/
package middleware
