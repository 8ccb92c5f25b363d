package auth

import (
	"context"
	"errors"
	"net/netip"
	"strings"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
)

type AccessControl interface {
	// Authenticate returns the client on OK. Every rejection is
	// INVALID_USERNAME_OR_PASSWORD; INTERNAL_SYSTEM_ERROR only when the
	// client store could not be read.
	Authenticate(ctx context.Context, username, password, sourceAddress string) (*domain.Client, domain.ErrorCode)
}

type accessControl struct {
	clients domain.ClientRepository
	logger  *logger.Logger
}

func NewAccessControl(clients domain.ClientRepository, log *logger.Logger) AccessControl {
	return &accessControl{clients: clients, logger: log}
}

func (a *accessControl) Authenticate(ctx context.Context, username, password, sourceAddress string) (*domain.Client, domain.ErrorCode) {
	client, err := a.clients.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			a.logger.Info(ctx, "authentication rejected", "username", username, "reason", "unknown client")
			return nil, domain.InvalidUsernameOrPassword
		}
		a.logger.Error(ctx, "failed to load client", "username", username, "error", err)
		return nil, domain.InternalSystemError
	}

	var reason string
	switch {
	case !client.Active:
		reason = "inactive client"
	case !VerifyPassword(client.PasswordHash, password):
		reason = "credential mismatch"
	case !AddressAllowed(client.AllowedAddresses, sourceAddress):
		reason = "address not allowed"
	}
	if reason != "" {
		a.logger.Info(ctx, "authentication rejected",
			"username", username,
			"client_id", client.ID,
			"source_address", sourceAddress,
			"reason", reason,
		)
		return nil, domain.InvalidUsernameOrPassword
	}

	return client, domain.OK
}

// AddressAllowed matches addr against exact addresses and CIDR prefixes.
// Malformed entries never match.
func AddressAllowed(allowlist []string, addr string) bool {
	ip, err := netip.ParseAddr(strings.TrimSpace(addr))
	if err != nil {
		return false
	}
	ip = ip.Unmap()

	for _, entry := range allowlist {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err == nil && prefix.Contains(ip) {
				return true
			}
			continue
		}

		allowed, err := netip.ParseAddr(entry)
		if err == nil && allowed.Unmap() == ip {
			return true
		}
	}
	return false
}
