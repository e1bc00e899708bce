// Package application holds the read model of a consuming application.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrApplicationNotFound = errors.New("application not found")

// Application is the read model of a consuming application as seen by the
// entitlement engine. Applications are managed elsewhere; this core only
// needs their identity and OAuth client identifier.
type Application struct {
	id       string
	name     string
	clientID string
}

// ReconstructApplication rebuilds an application read model from the
// directory backing store. clientID may be empty.
func ReconstructApplication(id, name, clientID string) (*Application, error) {
	if id == "" {
		return nil, fmt.Errorf("application ID is required")
	}
	return &Application{
		id:       id,
		name:     name,
		clientID: strings.TrimSpace(clientID),
	}, nil
}

func (a *Application) ID() string {
	return a.id
}

func (a *Application) Name() string {
	return a.name
}

// ClientID returns the OAuth client identifier, empty when none is configured.
func (a *Application) ClientID() string {
	return a.clientID
}

// HasClientID reports whether the application carries a usable client identifier.
func (a *Application) HasClientID() bool {
	return a.clientID != ""
}

// Directory resolves application identifiers to their read models.
// Implementations return (nil, nil) when the application does not exist.
type Directory interface {
	GetByID(ctx context.Context, id string) (*Application, error)
}
