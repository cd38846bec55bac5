package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/accountability-buddy/api/pkg/apperrors"
	jwtutil "github.com/accountability-buddy/api/pkg/jwt"
	"github.com/accountability-buddy/api/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError translates a service error into an HTTP response.
// Classified errors carry their own message; anything else becomes a
// generic 500.
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("Request failed")
		message = "Internal server error"
	}
	http.Error(w, message, status)
}

// currentClaims returns the authenticated claims, writing a 401 when
// the request carries none.
func currentClaims(w http.ResponseWriter, r *http.Request) (*jwtutil.Claims, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

// parseObjectID converts a hex path parameter to an ObjectID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

// currentUserID extracts the authenticated user's ID from the request
// context. Writes the error response itself when absent or malformed.
func currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID from claims")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return primitive.NilObjectID, false
	}
	return userID, true
}
