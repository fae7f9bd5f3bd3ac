package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// Authorize lets the request through only when the caller attached by
// auth.Identify may perform op.
func Authorize(op auth.Operation) func(http.Handler) http.Handler {
	return authorizeWith(func(*http.Request) auth.Operation { return op })
}

// AuthorizeByMethod derives the operation from the request method, so a
// single catalog route can be open for reads and restricted for writes.
func AuthorizeByMethod() func(http.Handler) http.Handler {
	return authorizeWith(func(r *http.Request) auth.Operation {
		return auth.OperationForMethod(r.Method)
	})
}

func authorizeWith(opFor func(*http.Request) auth.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := opFor(r)
			caller := auth.CallerFromContext(r.Context())

			if err := auth.Authorize(op, caller); err != nil {
				event := log.Info().
					Str("operation", op.String()).
					Str("method", r.Method).
					Str("path", r.URL.Path)
				if caller != nil {
					event = event.Int64("user_id", caller.UserID)
				}
				event.Msg("Permission denied")

				utils.ErrorFromAppError(w, utils.ParseError(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}
