package wizard

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-booking/pkg/models"
)

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+33 6 12 34 56 78", true},
		{"0612345678", true},
		{"0033612345678", true},
		{"+972 (58) 414-0489", true},
		{"(555) 123-4567", true},
		{"123", false},
		{"", false},
		{"+123456789", false}, // nine characters after the prefix
		{"06 12 34 56 7a", false},
		{"06.12.34.56.78", false},
		{"++33612345678", false},
		{"06123456+78", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPhoneNumber(tt.phone))
		})
	}
}

func TestValidateContact(t *testing.T) {
	complete := models.FormData{
		FirstName: "Jean",
		LastName:  "Dupont",
		Email:     "j@x.com",
		Phone:     "0612345678",
	}
	assert.True(t, ValidateContact(complete))

	noFirst := complete
	noFirst.FirstName = ""
	assert.False(t, ValidateContact(noFirst))

	noLast := complete
	noLast.LastName = ""
	assert.False(t, ValidateContact(noLast))

	noEmail := complete
	noEmail.Email = ""
	assert.False(t, ValidateContact(noEmail))

	badPhone := complete
	badPhone.Phone = "123"
	assert.False(t, ValidateContact(badPhone))
}

func TestValidateVehicle(t *testing.T) {
	assert.True(t, ValidateVehicle(models.FormData{}))
}

func TestToTransferDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"05/12/2024", "2024-12-05", true},
		{"10/06/2025", "2025-06-10", true},
		{"29/02/2024", "2024-02-29", true},
		{"", "", false},
		{"05-12-2024", "", false},
		{"05/12", "", false},
		{"05/12/2024/01", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ToTransferDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransferDatePtr(t *testing.T) {
	got := TransferDatePtr("05/12/2024")
	if assert.NotNil(t, got) {
		assert.Equal(t, "2024-12-05", *got)
	}
	assert.Nil(t, TransferDatePtr("2024-12-05"))
}

func TestIsDisplayDate(t *testing.T) {
	assert.True(t, IsDisplayDate("10/06/2025"))
	assert.False(t, IsDisplayDate("1/6/2025"))
	assert.False(t, IsDisplayDate("01/6/2025"))
	assert.True(t, IsDisplayDate("29/02/2024"))
	assert.False(t, IsDisplayDate("29/02/2025"))
	assert.False(t, IsDisplayDate("06/13/2025"))
	assert.False(t, IsDisplayDate("2025-06-10"))
}

func TestToTransferDate_AlwaysZeroPadded(t *testing.T) {
	transfer := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	for _, in := range []string{"01/01/2025", "05/06/2025", "09/11/2025", "31/12/2025", "29/02/2024"} {
		require.True(t, IsDisplayDate(in), in)
		got, ok := ToTransferDate(in)
		require.True(t, ok, in)
		assert.Regexp(t, transfer, got, in)
	}
}
