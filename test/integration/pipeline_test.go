// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

//go:build integration

package integration

import (
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/alissa-agent/seccore/internal/timing"
	"github.com/alissa-agent/seccore/pkg/credential"
	"github.com/alissa-agent/seccore/pkg/schemas"
	"github.com/alissa-agent/seccore/pkg/token"
	"github.com/alissa-agent/seccore/pkg/validation"
)

var _ = Describe("Registration flow", func() {
	var (
		ctx    context.Context
		svc    *credential.Service
		issuer *token.Issuer
		taken  map[string]bool
		reg    *schemas.Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		svc, err = credential.NewService(credential.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		issuer, err = token.NewIssuer(token.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		taken = map[string]bool{}
		reg = schemas.NewRegistry(schemas.WithEmailLookup(func(_ context.Context, email string) (bool, error) {
			return taken[strings.ToLower(email)], nil
		}))
	})

	register := func(body string) validation.Result[any] {
		res, err := reg.Validate(ctx, schemas.NameRegister, []byte(body))
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	It("validates, hashes and issues tokens for a new account", func() {
		res := register(`{"email":"ada@example.com","username":"ada","password":"Secret123!"}`)
		Expect(res.OK()).To(BeTrue(), res.Message())

		req, ok := res.Data().(schemas.RegisterRequest)
		Expect(ok).To(BeTrue())

		cred, err := svc.NewCredential(ctx, req.Password)
		Expect(err).NotTo(HaveOccurred())
		taken[req.Email] = true

		access, err := issuer.AccessToken()
		Expect(err).NotTo(HaveOccurred())
		refresh, err := issuer.RefreshToken()
		Expect(err).NotTo(HaveOccurred())
		kind, ok := issuer.KindOf(access)
		Expect(ok).To(BeTrue())
		Expect(kind).To(Equal(token.KindAccessToken))
		kind, ok = issuer.KindOf(refresh)
		Expect(ok).To(BeTrue())
		Expect(kind).To(Equal(token.KindRefreshToken))

		login, err := reg.Validate(ctx, schemas.NameLogin, []byte(`{"email":"ada@example.com","password":"Secret123!"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(login.OK()).To(BeTrue())

		matched, err := svc.Verify(ctx, login.Data().(schemas.LoginRequest).Password, cred.PasswordHash, cred.Salt)
		Expect(err).NotTo(HaveOccurred())
		Expect(matched).To(BeTrue())

		again := register(`{"email":"ada@example.com","username":"ada2","password":"Secret123!"}`)
		Expect(again.OK()).To(BeFalse())
		Expect(again.Message()).To(Equal("email: already registered"))
	})

	It("reports only the first issue for invalid submissions", func() {
		res := register(`{"email":"nope","username":"a","password":"weak"}`)
		Expect(res.OK()).To(BeFalse())
		Expect(res.Message()).To(HavePrefix("email: "))
	})

	It("validates asynchronously", func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		ch := validation.ValidateAsync[schemas.Pagination](ctx, schemas.PaginationQuery, []byte(`{"page":3}`))
		var res validation.Result[schemas.Pagination]
		Eventually(ch).Should(Receive(&res))
		Expect(res.OK()).To(BeTrue())
		Expect(res.Data().Offset()).To(Equal(20))
	})
})

var _ = Describe("Hash comparison timing", func() {
	It("does not depend on where the inputs differ", func() {
		report, err := timing.CompareComparator(credential.Equal, credential.DerivedKeyLength*64, 200)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Within(0.25)).To(BeTrue(), "relative difference %.3f", report.RelativeDiff)
	})
})
