package builtins

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// registerCrypto wires the hashing/signing surface SPEC_FULL.md §4.H adds,
// grounded in the teacher's internal/cryptoanalysis package — generalized
// from VM-native security-analysis helpers to plain hex-in/hex-out built-ins.
// Hash results register no reverse (hashes aren't invertible); sign/verify
// and the raw curve helper don't register one either — none of these have a
// meaningful single-valued inverse, so force() on their results deliberately
// returns nothing (spec.md §7's "absence of a proposal" path).
func registerCrypto(env *environment.Environment) {
	env.Add("crypto.sha256", fn("crypto.sha256", func(args value.Vallist) (value.Vallist, error) {
		s, err := argString(args, 0, "crypto.sha256")
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256([]byte(s))
		return value.NewVallist(hashResult("crypto.sha256", s, sum[:])), nil
	}))

	env.Add("crypto.sha3", fn("crypto.sha3", func(args value.Vallist) (value.Vallist, error) {
		s, err := argString(args, 0, "crypto.sha3")
		if err != nil {
			return nil, err
		}
		sum := sha3.Sum256([]byte(s))
		return value.NewVallist(hashResult("crypto.sha3", s, sum[:])), nil
	}))

	env.Add("crypto.sign", fn("crypto.sign", func(args value.Vallist) (value.Vallist, error) {
		seedHex, err := argString(args, 0, "crypto.sign")
		if err != nil {
			return nil, err
		}
		msg, err := argString(args, 1, "crypto.sign")
		if err != nil {
			return nil, err
		}
		seed, err := hex.DecodeString(seedHex)
		if err != nil || len(seed) != ed25519.SeedSize {
			return nil, badArg(1, "crypto.sign", "expected a 32-byte hex seed")
		}
		priv := ed25519.NewKeyFromSeed(seed)
		sig := ed25519.Sign(priv, []byte(msg))
		return value.NewVallist(value.String(hex.EncodeToString(sig)).WithOrigin(value.ExternalFunction{
			Name: "crypto.sign", Args: value.NewVallist(args.Get(0), args.Get(1)),
		})), nil
	}))

	env.Add("crypto.verify", fn("crypto.verify", func(args value.Vallist) (value.Vallist, error) {
		pubHex, err := argString(args, 0, "crypto.verify")
		if err != nil {
			return nil, err
		}
		msg, err := argString(args, 1, "crypto.verify")
		if err != nil {
			return nil, err
		}
		sigHex, err := argString(args, 2, "crypto.verify")
		if err != nil {
			return nil, err
		}
		pub, err1 := hex.DecodeString(pubHex)
		sig, err2 := hex.DecodeString(sigHex)
		if err1 != nil || err2 != nil || len(pub) != ed25519.PublicKeySize {
			return nil, badArg(1, "crypto.verify", "expected hex-encoded key/signature")
		}
		ok := ed25519.Verify(ed25519.PublicKey(pub), []byte(msg), sig)
		return value.NewVallist(value.Bool(ok).WithOrigin(value.ExternalFunction{
			Name: "crypto.verify",
		})), nil
	}))

	// crypto.scalarbasemult exercises filippo.io/edwards25519 directly,
	// multiplying the curve's base point by a scalar — a low-level helper
	// the teacher's go.mod pulls in transitively but never calls itself.
	env.Add("crypto.scalarbasemult", fn("crypto.scalarbasemult", func(args value.Vallist) (value.Vallist, error) {
		scalarHex, err := argString(args, 0, "crypto.scalarbasemult")
		if err != nil {
			return nil, err
		}
		raw, err := hex.DecodeString(scalarHex)
		if err != nil || len(raw) != 32 {
			return nil, badArg(1, "crypto.scalarbasemult", "expected a 32-byte hex scalar")
		}
		s, err := edwards25519.NewScalar().SetBytesWithClamping(raw)
		if err != nil {
			return nil, badArg(1, "crypto.scalarbasemult", fmt.Sprintf("invalid scalar: %s", err))
		}
		point := new(edwards25519.Point).ScalarBaseMult(s)
		return value.NewVallist(value.String(hex.EncodeToString(point.Bytes())).WithOrigin(value.ExternalFunction{
			Name: "crypto.scalarbasemult",
		})), nil
	}))
}

func hashResult(name, input string, sum []byte) value.Value {
	return value.String(hex.EncodeToString(sum)).WithOrigin(value.ExternalFunction{
		Name: name,
		Args: value.NewVallist(value.String(input)),
		// Reverse intentionally nil: a hash has no inverse.
	})
}
