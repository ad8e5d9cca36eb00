package social

import "socialportfolio/backend/internal/apperror"

var (
	// ErrSelfReference rejects an operation aimed at the caller's own account.
	ErrSelfReference = apperror.New(apperror.KindValidation, "self_reference", "You cannot target yourself")

	// ErrNotFound reports a user id with no account behind it.
	ErrNotFound = apperror.New(apperror.KindNotFound, "user_not_found", "User not found")

	// ErrAlreadyConnected rejects a request between connected users.
	ErrAlreadyConnected = apperror.New(apperror.KindConflict, "already_connected", "Already connected")

	// ErrDuplicateRequest rejects a second pending request to the same user.
	ErrDuplicateRequest = apperror.New(apperror.KindConflict, "duplicate_request", "Connection request already sent")

	// ErrNoSuchRequest rejects accepting a request that is not pending.
	ErrNoSuchRequest = apperror.New(apperror.KindConflict, "no_such_request", "No such connection request")

	// ErrAlreadyLiked rejects liking a profile twice.
	ErrAlreadyLiked = apperror.New(apperror.KindConflict, "already_liked", "Already liked")
)
