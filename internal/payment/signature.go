package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 署名ヘッダー形式: "t=<unix>,v1=<hex>"
// v1 = HMAC-SHA256(secret, "<t>.<body>")

const SignatureHeader = "X-Payment-Signature"

// 古すぎる署名は再送攻撃とみなして拒否
const signatureTolerance = 5 * time.Minute

var ErrInvalidSignature = errors.New("invalid signature")

func computeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign はテストとローカル送信用。
func Sign(secret string, timestamp time.Time, payload []byte) string {
	t := timestamp.Unix()
	return fmt.Sprintf("t=%d,v1=%s", t, computeSignature(secret, t, payload))
}

// VerifySignature はペイロードを信用する前に必ず呼ぶ。
func VerifySignature(secret string, header string, payload []byte, now time.Time) error {
	var ts int64 = -1
	var sig string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			v, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = v
		case "v1":
			sig = kv[1]
		}
	}

	if ts < 0 || sig == "" {
		return ErrInvalidSignature
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrInvalidSignature
	}

	expected := computeSignature(secret, ts, payload)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	return nil
}
