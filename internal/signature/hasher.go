package signature

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrToolUnavailable means the hashing tool could not be started.
	ErrToolUnavailable = errors.New("hash tool unavailable")
	// ErrToolRejected means the hashing tool ran but refused the signature.
	ErrToolRejected = errors.New("hash tool rejected signature")
)

const (
	ToolCast    = "cast"
	ToolBuiltin = "builtin"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Hasher computes the identifying hash of a canonical event signature.
type Hasher interface {
	Hash(ctx context.Context, canonical string) (string, error)
}

// NewHasher returns the hasher registered under name.
func NewHasher(name, castPath string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ToolCast:
		return CastHasher{Path: castPath}, nil
	case ToolBuiltin:
		return KeccakHasher{}, nil
	default:
		return nil, fmt.Errorf("unsupported hash tool: %s", name)
	}
}

// CastHasher shells out to Foundry's `cast sig-event`.
type CastHasher struct {
	Path string
}

func (h CastHasher) Hash(ctx context.Context, canonical string) (string, error) {
	path := h.Path
	if path == "" {
		path = ToolCast
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "sig-event", canonical)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s: %v", ErrToolUnavailable, path, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s: %s", ErrToolRejected, canonical, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: %s: %v", ErrToolUnavailable, path, err)
	}

	return normalizeHash(stdout.String(), canonical)
}

// KeccakHasher hashes the type-only signature in process.
type KeccakHasher struct{}

func (KeccakHasher) Hash(_ context.Context, canonical string) (string, error) {
	if err := Validate(canonical); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolRejected, canonical, err)
	}
	return crypto.Keccak256Hash([]byte(TypeOnly(canonical))).Hex(), nil
}

// Validate checks that sig has an identifier name and only known ABI types.
func Validate(sig string) error {
	name, list, ok := splitSignature(Canonicalize(sig))
	if !ok {
		return fmt.Errorf("missing parameter list")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid name %q", name)
	}
	for _, typ := range paramTypes(list) {
		if err := validateType(typ); err != nil {
			return err
		}
	}
	return nil
}

func validateType(typ string) error {
	if !strings.HasPrefix(typ, "(") {
		if _, err := abi.NewType(typ, "", nil); err != nil {
			return fmt.Errorf("invalid type %q: %w", typ, err)
		}
		return nil
	}

	_, inner, ok := splitSignature(typ)
	if !ok {
		return fmt.Errorf("unbalanced tuple %q", typ)
	}
	for _, component := range paramTypes(inner) {
		if err := validateType(component); err != nil {
			return err
		}
	}
	return nil
}

func normalizeHash(output, canonical string) (string, error) {
	trimmed := strings.TrimSpace(output)
	data, err := hexutil.Decode(trimmed)
	if err != nil || len(data) != common.HashLength {
		return "", fmt.Errorf("%w: %s: unexpected output %q", ErrToolRejected, canonical, trimmed)
	}
	return common.BytesToHash(data).Hex(), nil
}
