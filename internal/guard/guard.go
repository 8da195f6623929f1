// Package guard decides, for every navigable request, whether to pass it
// through, redirect it, or refresh the caller's session first.
package guard

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/AJIyanu/msdbc/internal/session"
)

// RouteClass partitions request paths. Every path lands in exactly one class.
type RouteClass int

const (
	ClassBypass RouteClass = iota
	ClassLogout
	ClassPublicAuth
	ClassProtected
	ClassOther
)

func (rc RouteClass) String() string {
	switch rc {
	case ClassBypass:
		return "bypass"
	case ClassLogout:
		return "logout"
	case ClassPublicAuth:
		return "public_auth"
	case ClassProtected:
		return "protected"
	default:
		return "other"
	}
}

// Routes is the static path partition the guard classifies against.
type Routes struct {
	BypassPrefixes    []string
	LogoutPath        string
	LoginPath         string
	PublicAuthPaths   []string
	ProtectedPrefixes []string
	DefaultPath       string
}

// DefaultRoutes returns the application's route partition.
func DefaultRoutes() Routes {
	return Routes{
		BypassPrefixes:    []string{"/static", "/assets", "/api", "/metrics", "/healthz"},
		LogoutPath:        "/logout",
		LoginPath:         "/login",
		PublicAuthPaths:   []string{"/login", "/register", "/forgot-password", "/reset-password"},
		ProtectedPrefixes: []string{"/records", "/dashboard", "/profile", "/settings"},
		DefaultPath:       "/records",
	}
}

// Classify maps a path to its route class. Rules are evaluated in order;
// first match wins.
func (r Routes) Classify(path string) RouteClass {
	for _, prefix := range r.BypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return ClassBypass
		}
	}
	if last := path[strings.LastIndex(path, "/")+1:]; strings.Contains(last, ".") {
		return ClassBypass
	}
	if path == r.LogoutPath {
		return ClassLogout
	}
	for _, p := range r.PublicAuthPaths {
		if path == p {
			return ClassPublicAuth
		}
	}
	for _, prefix := range r.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return ClassProtected
		}
	}
	return ClassOther
}

// Action is what the guard tells the HTTP layer to do.
type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
)

func (a Action) String() string {
	if a == ActionRedirect {
		return "redirect"
	}
	return "allow"
}

// Decision is the guard's verdict for one request. Refreshed carries the
// extended session when a refresh succeeded, so the transport can re-issue
// credentials; SignedOut is set when the logout path destroyed the session.
type Decision struct {
	Class     RouteClass
	Action    Action
	Target    string
	Refreshed *session.Session
	SignedOut bool
}

func allow(class RouteClass) Decision {
	return Decision{Class: class, Action: ActionAllow}
}

func redirect(class RouteClass, target string) Decision {
	return Decision{Class: class, Action: ActionRedirect, Target: target}
}

// Decide runs the guard's decision algorithm for one request path against
// the request's session provider. It is pure over (path, provider outcomes,
// now) and performs no transport work itself.
func Decide(ctx context.Context, routes Routes, path string, provider session.Provider, now time.Time) Decision {
	class := routes.Classify(path)

	switch class {
	case ClassBypass:
		// no session check at all for assets and API paths
		return allow(class)
	case ClassLogout:
		_ = provider.SignOut(ctx)
		d := redirect(class, routes.LoginPath)
		d.SignedOut = true
		return d
	}

	sess, err := provider.GetSession(ctx)
	if err != nil || !sess.ValidAt(now) {
		// fail closed on protected routes, open everywhere else
		if class == ClassProtected {
			return redirect(class, routes.LoginPath+"?returnUrl="+url.QueryEscape(path))
		}
		return allow(class)
	}

	if class == ClassPublicAuth {
		return redirect(class, routes.DefaultPath)
	}

	if sess.NearExpiry(now) {
		refreshed, rerr := provider.RefreshSession(ctx)
		if rerr != nil || refreshed == nil {
			if class == ClassProtected {
				return redirect(class, routes.LoginPath)
			}
			return allow(class)
		}
		d := allow(class)
		d.Refreshed = refreshed
		return d
	}

	return allow(class)
}
