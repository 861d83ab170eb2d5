// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteServices is the services page.
	RouteServices = "/services"
	// RouteHowItWorks is the how-it-works page.
	RouteHowItWorks = "/how-it-works"
	// RouteCompare is the agency comparison page.
	RouteCompare = "/compare"
	// RouteAbout is the about page.
	RouteAbout = "/about"
	// RouteCalculator is the ROI calculator page.
	RouteCalculator = "/calculator"
	// RouteResults is the case studies page.
	RouteResults = "/results"
	// RouteContact is the intake form page.
	RouteContact = "/contact"
	// RoutePresenter is the presenter slideshow.
	RoutePresenter = "/presenter"

	// RouteAdmin is the admin dashboard shell.
	RouteAdmin = "/admin"
	// RouteAdminLogin is the admin login page.
	RouteAdminLogin = "/admin/login"

	// RouteOAuthLogin starts an identity provider sign-in.
	RouteOAuthLogin = "/api/oauth/login"
	// RouteOAuthCallback is the identity provider redirect target.
	RouteOAuthCallback = "/api/oauth/callback"
	// RouteRPC is the mount point of the RPC procedures.
	RouteRPC = "/api/trpc"

	// RouteHealth is the health check.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness check.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness check.
	RouteHealthReady = "/health/ready"
	// RouteRobots is the crawler rules file.
	RouteRobots = "/robots.txt"
	// RouteSitemap is the XML sitemap.
	RouteSitemap = "/sitemap.xml"
	// RouteStatic is the static asset prefix.
	RouteStatic = "/static/*"
)
