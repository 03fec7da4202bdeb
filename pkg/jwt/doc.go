// Package jwt provides JSON Web Token utilities for the CampusHub API.
//
// The jwt package handles RS256 token signing, validation, and claims
// extraction for authentication.
//
// # Token Signing
//
// Sign tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/jwt_private.pem",
//	    Issuer:         "campushub-api",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    UserID: user.ID,
//	    Email:  user.Email,
//	    Role:   string(user.Role),
//	})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// # Keys
//
// Tokens are signed with a 2048-bit RSA key pair. GenerateKeyPair writes
// a fresh pair to disk; a validation-only deployment can load just the
// public key.
package jwt
