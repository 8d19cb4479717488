package validate_test

import (
	"testing"

	"markettakip/pkg/validate"
)

type returnInput struct {
	SupplierName string `json:"supplierName" validate:"required,max=200"`
	ProductName  string `json:"productName"  validate:"required,max=200"`
	Weight       string `json:"weight"       validate:"nullable,max=50"`
	Quantity     int    `json:"quantity"     validate:"required,integer,gt=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(returnInput{
		SupplierName: "Acme Gıda",
		ProductName:  "Gofret",
		Weight:       "", // nullable — allowed to be empty
		Quantity:     3,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(returnInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["supplierName"]; !ok {
		t.Error("expected supplierName to be required")
	}
	if _, ok := errs["quantity"]; !ok {
		t.Error("expected quantity to be required")
	}
}

func TestGtRule(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"integer,gt=0"`
	}
	if errs := validate.Struct(in{Quantity: -1}); !validate.HasErrors(errs) {
		t.Error("expected negative quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 5}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 5 to pass, got: %v", errs)
	}
}

func TestGteRule(t *testing.T) {
	type in struct {
		Price float64 `json:"salesPrice" validate:"gte=0"`
	}
	if errs := validate.Struct(in{Price: -0.01}); !validate.HasErrors(errs) {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: 0}); validate.HasErrors(errs) {
		t.Errorf("expected zero price to pass, got: %v", errs)
	}
}

func TestMaxStringLength(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,max=5"`
	}
	if errs := validate.Struct(in{Name: "too long for five"}); !validate.HasErrors(errs) {
		t.Error("expected over-long name to fail")
	}
	if errs := validate.Struct(in{Name: "short"}); validate.HasErrors(errs) {
		t.Errorf("expected five-char name to pass, got: %v", errs)
	}
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	type in struct {
		Brand string `json:"brand" validate:"nullable,min=3"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable field to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Brand: "ab"}); !validate.HasErrors(errs) {
		t.Error("expected too-short non-empty nullable field to fail")
	}
}

func TestFieldNamesComeFromJSONTags(t *testing.T) {
	type in struct {
		SalesPrice float64 `json:"salesPrice,omitempty" validate:"gte=0"`
	}
	errs := validate.Struct(in{SalesPrice: -1})
	if _, ok := errs["salesPrice"]; !ok {
		t.Errorf("expected error keyed by json name, got: %v", errs)
	}
}
