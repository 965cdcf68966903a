// Package emailverification issues and consumes single-use email
// verification tokens.
//
// A verification record is keyed by email and holds the current token and a
// verified flag. Requesting verification generates a fresh token, upserts
// the record (replacing any earlier token for the same email) and mails a
// link containing the token. Visiting the link marks the record verified and
// clears the token, so a second visit with the same link finds nothing.
//
// # Basic Usage
//
//	repo, err := emailverification.NewEmailVerificationRepository(ctx, "mongo", emailverification.RepositoryConfig{
//		MongoDatabase: client.Database("login_page"),
//	})
//	issuer, err := emailverification.NewIssuer("https://app.example.com")
//	service := emailverification.NewEmailVerificationService(repo, issuer, notificationManager,
//		emailverification.WithMetrics(metrics),
//	)
//
//	// Step 1: send the link
//	result, err := service.RequestVerification(ctx, "a@example.com")
//
//	// Step 2: the user follows https://app.example.com/verify?token=<token>
//	outcome, err := service.VerifyEmail(ctx, token)
//	if outcome == emailverification.VerifyNotFound {
//		// unknown, replaced or already used token
//	}
//
// # Storage
//
// Three EmailVerificationRepository implementations are provided:
//
//   - MongoEmailVerificationRepository: document store, unique indexes on
//     email and on token (when present)
//   - PostgresEmailVerificationRepository: pgx pool, same constraints as a
//     unique column and a partial unique index
//   - FileEmailVerificationRepository: a single JSON file, for local
//     development and tests
//
// Every implementation reports a colliding token as ErrDuplicateToken; the
// service retries with a new token.
//
// # Failed delivery
//
// If the mail cannot be sent, the service undoes its own write: a record it
// created is deleted, a record it overwrote gets its previous token back. The
// caller still receives the delivery error.
package emailverification
