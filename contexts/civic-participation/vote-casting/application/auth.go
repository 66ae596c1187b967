package application

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"civica/contexts/civic-participation/vote-casting/domain/entities"
	domainerrors "civica/contexts/civic-participation/vote-casting/domain/errors"
	"civica/contexts/civic-participation/vote-casting/ports"
)

// voterLinkageLabel is the fixed HMAC message producing the per-voter digest;
// the key token is the HMAC key, so the digest is computable only after a
// successful passphrase verification.
const voterLinkageLabel = "voter-linkage"

// AuthenticatedVoter is the outcome of a successful credential verification.
// KeyToken is the decrypted per-voter key token (the voter id rendered as
// text, by construction of the external key-issuance process). Digest is the
// deterministic queryable marker derived from it.
type AuthenticatedVoter struct {
	Voter    entities.Voter
	KeyToken string
	Digest   string
}

// Authenticator runs the shared identity/key/passphrase/liveness sequence of
// the vote casting protocol. Every failure writes its own audit entry before
// the error is surfaced.
type Authenticator struct {
	Voters   ports.VoterDirectory
	Cipher   ports.KeyCipher
	Liveness ports.LivenessRecorder
	Audit    ports.AuditLog
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Authenticate resolves the voter, verifies the passphrase against the active
// encrypted key, and records the liveness proof. The liveness document is
// committed on every authenticated attempt regardless of what happens to the
// vote afterwards.
func (a Authenticator) Authenticate(
	ctx context.Context,
	identification string,
	password string,
	livenessPayload string,
	origin string,
) (AuthenticatedVoter, error) {
	logger := ResolveLogger(a.Logger)
	now := a.Clock.Now().UTC()

	voter, found, err := a.Voters.GetVoterByIdentification(ctx, strings.TrimSpace(identification))
	if err != nil {
		return AuthenticatedVoter{}, err
	}
	if !found {
		a.append(ctx, entities.AuditEntry{
			Description: "Usuario no encontrado en autenticación",
			Timestamp:   now,
			Computer:    origin,
			User:        strings.TrimSpace(identification),
			Trace:       origin,
			Checksum:    auditChecksum("Usuario no encontrado en autenticación", identification, now),
			TypeID:      entities.AuditTypeAuth,
			OriginID:    entities.AuditOriginEndpoint,
			SeverityID:  entities.AuditSeverityNotice,
		})
		logger.Warn("voter lookup failed",
			"event", "vote_auth_voter_not_found",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"origin", origin,
		)
		return AuthenticatedVoter{}, domainerrors.ErrVoterNotFound
	}

	key, found, err := a.Voters.GetActiveKey(ctx, voter.UserID)
	if err != nil {
		return AuthenticatedVoter{}, err
	}
	if !found {
		logger.Error("no active cryptographic key",
			"event", "vote_auth_no_active_key",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"user_id", voter.UserID,
			"origin", origin,
		)
		return AuthenticatedVoter{}, domainerrors.ErrNoActiveKey
	}

	plaintext, err := a.Cipher.Decrypt(password, key.EncryptedKey)
	if err != nil {
		a.append(ctx, entities.AuditEntry{
			Description: "Error técnico en verificación de contraseña",
			Timestamp:   now,
			Computer:    origin,
			User:        strconv.FormatInt(voter.UserID, 10),
			Trace:       err.Error(),
			RefID1:      &voter.UserID,
			Checksum:    auditChecksum("Error técnico en verificación de contraseña", identification, now),
			TypeID:      entities.AuditTypeCredential,
			OriginID:    entities.AuditOriginEndpoint,
			SeverityID:  entities.AuditSeverityCritical,
		})
		logger.Error("key decryption failed",
			"event", "vote_auth_decrypt_error",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"user_id", voter.UserID,
			"origin", origin,
			"error", err.Error(),
		)
		return AuthenticatedVoter{}, domainerrors.ErrInternal
	}
	if plaintext == nil {
		a.append(ctx, entities.AuditEntry{
			Description: "Fallo de descifrado de llave",
			Timestamp:   now,
			Computer:    origin,
			User:        strconv.FormatInt(voter.UserID, 10),
			Trace:       origin,
			RefID1:      &voter.UserID,
			Checksum:    auditChecksum("Fallo de descifrado de llave", identification, now),
			TypeID:      entities.AuditTypeCredential,
			OriginID:    entities.AuditOriginEndpoint,
			SeverityID:  entities.AuditSeverityWarning,
		})
		logger.Warn("passphrase mismatch",
			"event", "vote_auth_passphrase_mismatch",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"user_id", voter.UserID,
			"origin", origin,
		)
		return AuthenticatedVoter{}, domainerrors.ErrInvalidCredentials
	}

	keyToken := string(plaintext)
	if _, err := a.Liveness.RecordLivenessProof(ctx, entities.LivenessProof{
		Name:         fmt.Sprintf("%d-PruebaVida", voter.UserID),
		CreatedAt:    now,
		TypeID:       entities.DocumentTypeLivenessProof,
		StatusID:     entities.DocumentStatusAccepted,
		LastModified: now,
		Current:      true,
		LegalID:      fmt.Sprintf("%d_PV", voter.UserID),
		Checksum:     payloadChecksum(livenessPayload),
	}); err != nil {
		return AuthenticatedVoter{}, err
	}
	a.append(ctx, entities.AuditEntry{
		Description: "Insercion Prueba de Vida",
		Timestamp:   now,
		Computer:    origin,
		User:        strconv.FormatInt(voter.UserID, 10),
		Trace:       origin,
		RefID1:      &voter.UserID,
		Checksum:    auditChecksum("Insercion Prueba de Vida", identification, now),
		TypeID:      entities.AuditTypeAuth,
		OriginID:    entities.AuditOriginEndpoint,
		SeverityID:  entities.AuditSeverityNotice,
	})

	logger.Info("voter authenticated",
		"event", "vote_auth_succeeded",
		"module", "civic-participation/vote-casting",
		"layer", "application",
		"user_id", voter.UserID,
		"origin", origin,
	)
	return AuthenticatedVoter{
		Voter:    voter,
		KeyToken: keyToken,
		Digest:   VoterDigest(keyToken),
	}, nil
}

// VoterDigest derives the deterministic queryable marker for a voter from the
// verified key token. It replaces the legacy decrypt-every-record scan for
// existence checks; the reversible linkage token remains the auditor path.
func VoterDigest(keyToken string) string {
	mac := hmac.New(sha256.New, []byte(keyToken))
	mac.Write([]byte(voterLinkageLabel))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a Authenticator) append(ctx context.Context, entry entities.AuditEntry) {
	if err := a.Audit.Append(ctx, entry); err != nil {
		ResolveLogger(a.Logger).Error("audit append failed",
			"event", "vote_audit_append_failed",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

func payloadChecksum(payload string) []byte {
	sum := sha256.Sum256([]byte(payload))
	return sum[:]
}

func auditChecksum(description string, user string, at time.Time) []byte {
	composed := description + "|" + user + "|" + at.Format(time.RFC3339)
	sum := sha256.Sum256([]byte(composed))
	return sum[:]
}
