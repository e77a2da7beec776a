package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
)

// Keys containing any of these are replaced outright.
var redactKeyParts = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"cookie",
	"api_key",
	"apikey",
	"email",
	"refresh",
}

// Keys containing any of these are replaced by a short stable hash so log
// lines can still be correlated per user.
var hashKeyParts = []string{"user_id", "session_id"}

type redactor struct {
	enabled bool
	salt    string
}

var (
	envRedactorOnce sync.Once
	envRedactorVal  *redactor
)

// envRedactor reads LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT once.
func envRedactor() *redactor {
	envRedactorOnce.Do(func() {
		envRedactorVal = &redactor{
			enabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
			salt:    envutil.String("LOG_HASH_SALT", ""),
		}
	})
	return envRedactorVal
}

func (r *redactor) kvs(kv []any) []any {
	if r == nil || !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, r.value(strings.ToLower(key), kv[i+1]))
	}
	return out
}

func (r *redactor) value(key string, val any) any {
	if key != "" {
		if containsAny(key, redactKeyParts) {
			return "[REDACTED]"
		}
		if containsAny(key, hashKeyParts) {
			return r.hash(val)
		}
	}
	switch v := val.(type) {
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = r.value(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, 0, len(v))
		for _, inner := range v {
			out = append(out, r.value("", inner))
		}
		return out
	case string:
		if looksLikeJWT(v) {
			return "[REDACTED]"
		}
		return v
	default:
		return val
	}
}

func (r *redactor) hash(val any) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if r.salt != "" {
		_, _ = h.Write([]byte(r.salt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
