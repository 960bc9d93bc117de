// Package main OneView API
//
//	@title						OneView API
//	@version					1.0
//	@description				Marketing KPI dashboard backend: Google Ads, Meta Ads and Google Analytics data combined per role
//
//	@host						localhost:5000
//	@BasePath					/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Auth
//	@tag.description			Login
//
//	@tag.name					User
//	@tag.description			Current user profile
//
//	@tag.name					KPI
//	@tag.description			Combined KPI data, source status and snapshot history
//
//	@tag.name					Cache
//	@tag.description			Payload cache administration
//
//	@tag.name					System
//	@tag.description			Health
package main
