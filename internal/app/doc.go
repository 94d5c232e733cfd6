// Package app holds the platform's domain layer.
//
// # Package Structure
//
//	internal/app/
//	├── domain/             # Domain models (pure data structures)
//	│   ├── user/           # Coach and client identities
//	│   ├── program/        # Weekly programs, days, exercises
//	│   ├── nutrition/      # Meal calorie breakdowns
//	│   ├── tracking/       # Daily adherence and exercise sets
//	│   └── compliance/     # Compliance-rate records
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # Store interfaces (UserStore, ProgramStore, ...)
//	│   ├── memory/         # In-memory implementation for tests
//	│   └── postgres/       # PostgreSQL implementation for production
//	└── services/           # Business logic, one package per service
//	    ├── auth/           # Registration, login, token issuance
//	    ├── nutrition/      # Meal enrichment engine (cache, AI, fallback)
//	    ├── program/        # Program assembly and authorization policy
//	    ├── tracking/       # Adherence tracking
//	    └── compliance/     # Compliance calculation
//
// Services accept store interfaces so the memory implementation can stand in
// for postgres in tests. HTTP handlers live in internal/api; each binary in
// cmd/ wires one service set against the shared middleware chain.
package app
