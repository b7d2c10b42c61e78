// Package inkpost provides a small blogging service.

// The application is organized into subpackages:

// - internal/handlers: HTTP page handlers and routing
// - internal/models: Data models and database schemas
// - internal/auth: Session authentication and credential checks
// - internal/forms: Submission validation for posts and comments
// - internal/pagination: Fixed-size page windows over listings
// - internal/cache: Page cache stores (Redis and in-memory)
// - internal/storage: Uploaded image storage (local disk and S3)
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (page cache, logging, metrics)
// - internal/seed: Development data seeding

// See the individual package documentation for details.
package inkpost
