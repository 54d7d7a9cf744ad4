// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package credential_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alissa-agent/seccore/pkg/credential"
	"github.com/alissa-agent/seccore/pkg/errutil"
)

// fastScrypt keeps unit tests quick; production uses DefaultScryptParams.
func fastScrypt() credential.ScryptKDF {
	return credential.ScryptKDF{N: 1024, R: 8, P: 1, KeyLength: credential.DerivedKeyLength}
}

func fastArgon2id() credential.Argon2idKDF {
	return credential.Argon2idKDF{Time: 1, MemoryKiB: 64, Threads: 1, KeyLength: credential.DerivedKeyLength}
}

func TestScryptKDF(t *testing.T) {
	t.Run("matches RFC 7914 test vector", func(t *testing.T) {
		kdf := credential.ScryptKDF{N: 1024, R: 8, P: 16, KeyLength: 64}
		key, err := kdf.Derive([]byte("password"), []byte("NaCl"))
		require.NoError(t, err)
		assert.Equal(t,
			"fdbabe1c9d3472007856e7190d01e9fe7c6ad7cbc8237830e77376634b3731622eaf30d92e22a3886ff109279d9830dac727afb94a83ee6d8360cbdfa2cc0640",
			hex.EncodeToString(key))
	})

	t.Run("deterministic", func(t *testing.T) {
		kdf := fastScrypt()
		a, err := kdf.Derive([]byte("pw"), []byte("salt"))
		require.NoError(t, err)
		b, err := kdf.Derive([]byte("pw"), []byte("salt"))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, credential.DerivedKeyLength)
	})

	t.Run("invalid N is a derivation failure", func(t *testing.T) {
		kdf := credential.ScryptKDF{N: 1000, R: 8, P: 1, KeyLength: 64}
		key, err := kdf.Derive([]byte("pw"), []byte("salt"))
		require.Error(t, err)
		assert.Nil(t, key)
		assert.ErrorIs(t, err, credential.ErrDerivation)
		assert.True(t, errutil.IsFatal(err))
		errutil.AssertErrorCode(t, err, "CREDENTIAL_KDF_FAILED")
	})

	t.Run("default and legacy params validate", func(t *testing.T) {
		require.NoError(t, credential.DefaultScryptParams().Validate())
		require.NoError(t, credential.LegacyScryptParams().Validate())
		assert.Equal(t, 1<<14, credential.LegacyScryptParams().N)
	})

	t.Run("validate rejects bad params", func(t *testing.T) {
		bad := []credential.ScryptKDF{
			{N: 1, R: 8, P: 1, KeyLength: 64},
			{N: 3000, R: 8, P: 1, KeyLength: 64},
			{N: 1024, R: 0, P: 1, KeyLength: 64},
			{N: 1024, R: 8, P: 0, KeyLength: 64},
			{N: 1024, R: 8, P: 1, KeyLength: 0},
		}
		for _, kdf := range bad {
			err := kdf.Validate()
			require.Error(t, err, "%+v", kdf)
			errutil.AssertErrorCode(t, err, "CREDENTIAL_INVALID_PARAMS")
		}
	})
}

func TestArgon2idKDF(t *testing.T) {
	t.Run("deterministic 64-byte output", func(t *testing.T) {
		kdf := fastArgon2id()
		a, err := kdf.Derive([]byte("pw"), []byte("salt-salt"))
		require.NoError(t, err)
		b, err := kdf.Derive([]byte("pw"), []byte("salt-salt"))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, credential.DerivedKeyLength)
	})

	t.Run("different salts differ", func(t *testing.T) {
		kdf := fastArgon2id()
		a, err := kdf.Derive([]byte("pw"), []byte("salt-one"))
		require.NoError(t, err)
		b, err := kdf.Derive([]byte("pw"), []byte("salt-two"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("zero threads fails instead of panicking", func(t *testing.T) {
		kdf := credential.Argon2idKDF{Time: 1, MemoryKiB: 64, Threads: 0, KeyLength: 64}
		key, err := kdf.Derive([]byte("pw"), []byte("salt"))
		require.Error(t, err)
		assert.Nil(t, key)
		assert.ErrorIs(t, err, credential.ErrDerivation)
	})

	t.Run("default params validate", func(t *testing.T) {
		require.NoError(t, credential.DefaultArgon2idParams().Validate())
	})
}
