package server

import (
	"net/url"
	"strings"
	"testing"
)

func TestVerifyPaymentReturn_ValidSignature(t *testing.T) {
	values := url.Values{}
	values.Set("order_id", "123")
	values.Set("status", "success")
	values.Set("sign", signPaymentReturn(values, "secret"))

	if !verifyPaymentReturn(values, "secret") {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifyPaymentReturn_TamperedParameter(t *testing.T) {
	values := url.Values{}
	values.Set("order_id", "123")
	values.Set("status", "failed")
	values.Set("sign", signPaymentReturn(values, "secret"))

	values.Set("status", "success")

	if verifyPaymentReturn(values, "secret") {
		t.Error("tampered parameters must fail verification")
	}
}

func TestVerifyPaymentReturn_MissingSignature(t *testing.T) {
	values := url.Values{}
	values.Set("order_id", "123")

	if verifyPaymentReturn(values, "secret") {
		t.Error("missing signature must fail verification")
	}
}

func TestVerifyPaymentReturn_EmptySecretSkipsVerification(t *testing.T) {
	values := url.Values{}
	values.Set("order_id", "123")

	if !verifyPaymentReturn(values, "") {
		t.Error("empty secret disables verification")
	}
}

func TestVerifyPaymentReturn_CaseInsensitiveComparison(t *testing.T) {
	values := url.Values{}
	values.Set("order_id", "123")
	sign := signPaymentReturn(values, "secret")
	values.Set("sign", strings.ToUpper(sign))

	if !verifyPaymentReturn(values, "secret") {
		t.Error("signature comparison must ignore hex casing")
	}
}

func TestSignPaymentReturn_OrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("b", "2")
	a.Set("a", "1")

	b := url.Values{}
	b.Set("a", "1")
	b.Set("b", "2")

	if signPaymentReturn(a, "secret") != signPaymentReturn(b, "secret") {
		t.Error("signature must not depend on parameter order")
	}
}
