// Package services implements the console's business operations on top of
// the repositories: validation, field encryption, capability checks and
// audit recording. Repositories store cipher tokens; services are the only
// layer that sees plaintext contact data.
package services

import (
	"context"
	"fmt"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/common"
)

// EncryptedPlaceholder is shown in place of a field whose token cannot be
// decrypted, so one damaged value never hides the rest of a record.
const EncryptedPlaceholder = "[ENCRYPTED]"

// Authorizer answers capability questions for the acting user, queried per
// operation.
type Authorizer interface {
	CurrentUsername() string
	HasCapability(c auth.Capability) bool
}

// Recorder receives audit events for completed operations.
type Recorder interface {
	Record(ctx context.Context, username, action, details string, suspicious bool)
}

func requireCapability(session Authorizer, c auth.Capability) error {
	if !session.HasCapability(c) {
		return fmt.Errorf("%w: %s", common.ErrPermissionDenied, c)
	}
	return nil
}
