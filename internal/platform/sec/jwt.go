// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and authorization checks.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, owner
// checks) from domain logic. Services receive a [*TokenService] through small
// interfaces they define themselves.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/vidtube/pkg/uuid"
)

// AccessClaims is the payload of an access token.
//
// Claims are abbreviated to keep the header small; the Session Guard rebuilds
// the acting principal from them without loading the account row.
type AccessClaims struct {
	jwt.RegisteredClaims

	PrincipalID string `json:"uid"`
	Username    string `json:"unm"`
	Email       string `json:"eml"`
	DisplayName string `json:"dnm"`
}

// RefreshClaims is the payload of a refresh token. The registered "jti" makes
// every minted token unique even when two are issued within the same second.
type RefreshClaims struct {
	jwt.RegisteredClaims

	PrincipalID string `json:"uid"`
}

// TokenSubject is the identity an access token is minted for.
type TokenSubject struct {
	PrincipalID string
	Username    string
	Email       string
	DisplayName string
}

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// TokenService signs access tokens with RS256 and refresh tokens with HS256.
//
// Keeping the two on different algorithms and keys means neither kind of
// token can ever be presented in place of the other.
type TokenService struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	refreshSecret []byte
	issuer        string
}

// NewTokenService reads the RSA key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, refreshSecret, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	if refreshSecret == "" {
		return nil, fmt.Errorf("sec: refresh token secret is empty")
	}

	return &TokenService{
		privateKey:    privateKey,
		publicKey:     publicKey,
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}, nil
}

// NewTokenServiceFromKeys builds a service from in-memory keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, refreshSecret, issuer string) *TokenService {
	return &TokenService{
		privateKey:    privateKey,
		publicKey:     &privateKey.PublicKey,
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}
}

// # Access Tokens

// GenerateAccessToken creates a signed access token for subject.
func (service *TokenService) GenerateAccessToken(subject TokenSubject, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.PrincipalID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{audienceAccess},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		PrincipalID: subject.PrincipalID,
		Username:    subject.Username,
		Email:       subject.Email,
		DisplayName: subject.DisplayName,
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks signature, expiry, issuer and audience.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.publicKey, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(audienceAccess),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid access token: %w", err)
	}

	if !token.Valid || claims.PrincipalID == "" {
		return nil, fmt.Errorf("sec: invalid access token claims")
	}

	return claims, nil
}

// # Refresh Tokens

// GenerateRefreshToken creates a signed refresh token and returns its expiry.
func (service *TokenService) GenerateRefreshToken(principalID string, timeToLive time.Duration) (string, time.Time, error) {
	currentTime := time.Now()
	expiresAt := currentTime.Add(timeToLive)

	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   principalID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{audienceRefresh},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		PrincipalID: principalID,
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// VerifyRefreshToken checks signature, expiry, issuer and audience.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.refreshSecret, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(audienceRefresh),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid refresh token: %w", err)
	}

	if !token.Valid || claims.PrincipalID == "" {
		return nil, fmt.Errorf("sec: invalid refresh token claims")
	}

	return claims, nil
}
