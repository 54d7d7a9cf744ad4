// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

//go:build integration

package integration

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/alissa-agent/seccore/internal/logging"
	"github.com/alissa-agent/seccore/internal/observability"
	"github.com/alissa-agent/seccore/pkg/credential"
)

// Hash produced by the legacy Node.js platform for "Secret123!" with the salt
// below (scrypt N=16384, r=8, p=1, 64-byte key).
const (
	legacySalt = "00112233445566778899aabbccddeeff"
	legacyHash = "cc89eabbf5e812497cb78ae9c6ffbbe03db1392f044159d2fa4363ab9c148a272412fc6ffd47f25802a54af97091768b42e3ed04e5590956e18e3ce9fb5ceaee"
)

var _ = Describe("Credential service", func() {
	var (
		ctx     context.Context
		metrics *observability.Metrics
		logs    *bytes.Buffer
		svc     *credential.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		metrics = observability.NewMetrics(observability.NewRegistry())
		logs = &bytes.Buffer{}
		logger := logging.Setup("seccore", "test", "json", slog.LevelDebug, logs)

		var err error
		svc, err = credential.NewService(credential.DefaultConfig(),
			credential.WithRecorder(metrics),
			credential.WithLogger(logger),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("hash and verify", func() {
		It("round-trips with default parameters", func() {
			cred, err := svc.NewCredential(ctx, "Secret123!")
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.PasswordHash).To(HaveLen(128))
			Expect(cred.PasswordHash).To(MatchRegexp(`^[0-9a-f]+$`))
			Expect(cred.Salt).To(HaveLen(32))

			ok, err := svc.Verify(ctx, "Secret123!", cred.PasswordHash, cred.Salt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = svc.Verify(ctx, "secret123!", cred.PasswordHash, cred.Salt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			Expect(testutil.ToFloat64(metrics.Verifications.WithLabelValues(credential.OutcomeMatch))).To(Equal(1.0))
			Expect(testutil.ToFloat64(metrics.Verifications.WithLabelValues(credential.OutcomeMismatch))).To(Equal(1.0))
		})

		It("gives different hashes for the same password", func() {
			a, err := svc.NewCredential(ctx, "Secret123!")
			Expect(err).NotTo(HaveOccurred())
			b, err := svc.NewCredential(ctx, "Secret123!")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Salt).NotTo(Equal(b.Salt))
			Expect(a.PasswordHash).NotTo(Equal(b.PasswordHash))
		})

		It("never writes the password or hash to the log", func() {
			cred, err := svc.NewCredential(ctx, "Secret123!")
			Expect(err).NotTo(HaveOccurred())
			Expect(logs.String()).To(ContainSubstring("password key derived"))
			Expect(logs.String()).NotTo(ContainSubstring("Secret123!"))
			Expect(logs.String()).NotTo(ContainSubstring(cred.PasswordHash))
			Expect(logs.String()).NotTo(ContainSubstring(cred.Salt))
		})
	})

	Describe("legacy records", func() {
		It("verifies hashes made with the legacy parameters", func() {
			cfg := credential.DefaultConfig()
			cfg.Scrypt = credential.LegacyScryptParams()
			legacy, err := credential.NewService(cfg)
			Expect(err).NotTo(HaveOccurred())

			ok, err := legacy.Verify(ctx, "Secret123!", legacyHash, legacySalt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			hash, err := legacy.Hash(ctx, "Secret123!", legacySalt)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(Equal(legacyHash))
		})

		It("does not verify legacy hashes with the default parameters", func() {
			ok, err := svc.Verify(ctx, "Secret123!", legacyHash, legacySalt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("argon2id", func() {
		It("round-trips with default parameters", func() {
			cfg := credential.DefaultConfig()
			cfg.Algorithm = credential.AlgorithmArgon2id
			argon, err := credential.NewService(cfg, credential.WithRecorder(metrics))
			Expect(err).NotTo(HaveOccurred())
			Expect(argon.Algorithm()).To(Equal(credential.AlgorithmArgon2id))

			cred, err := argon.NewCredential(ctx, "Secret123!")
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.PasswordHash).To(HaveLen(128))

			ok, err := argon.Verify(ctx, "Secret123!", cred.PasswordHash, cred.Salt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(testutil.CollectAndCount(metrics.KDFDuration)).To(Equal(1))
		})
	})

	Describe("concurrency", func() {
		It("verifies many passwords in parallel", func() {
			cred, err := svc.NewCredential(ctx, "Secret123!")
			Expect(err).NotTo(HaveOccurred())

			const workers = 8
			results := make([]bool, workers)
			var wg sync.WaitGroup
			for i := range workers {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					password := "Secret123!"
					if i%2 == 1 {
						password = "wrong"
					}
					ok, err := svc.Verify(ctx, password, cred.PasswordHash, cred.Salt)
					Expect(err).NotTo(HaveOccurred())
					results[i] = ok
				}()
			}
			wg.Wait()

			for i, ok := range results {
				Expect(ok).To(Equal(i%2 == 0), "worker %d", i)
			}
		})
	})
})
