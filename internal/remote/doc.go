// Package remote is the HTTP client for the homestead profile server.
//
// It covers two concerns. ProfileStore is what the engine syncs against:
// fetch a profile by user id, upsert a partial set of fields with
// create-or-update semantics, and look up who owns a username. Accounts
// handles email/password sign-up and sign-in for the session manager.
//
// Non-2xx responses come back as *StatusError. 404, 409 and 401 unwrap to
// ErrNotFound, ErrConflict and ErrUnauthorized, so callers test them with
// errors.Is. Upsert and SignUp narrow a conflict further to ErrUsernameTaken
// and ErrEmailTaken.
//
//	client, err := remote.NewClient(cfg.APIURL, cfg.RequestTimeout)
//	if err != nil {
//		return err
//	}
//	p, err := client.Fetch(ctx, userID)
//	if errors.Is(err, remote.ErrNotFound) {
//		// new user
//	}
package remote
