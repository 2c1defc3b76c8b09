package models

import (
	"testing"

	"github.com/google/uuid"
)

func validCart() []CartItem {
	return []CartItem{{MenuItemID: uuid.New(), Quantity: 2}}
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr bool
	}{
		{
			name:    "valid dine-in with client id",
			req:     CreateOrderRequest{Type: "Dine-in", Items: validCart(), ClientID: &clientID},
			wantErr: false,
		},
		{
			name:    "valid takeaway with phone",
			req:     CreateOrderRequest{Type: "Takeaway", Items: validCart(), ClientPhone: "555-1111", ClientName: "Alex"},
			wantErr: false,
		},
		{
			name:    "invalid type",
			req:     CreateOrderRequest{Type: "Delivery", Items: validCart(), ClientID: &clientID},
			wantErr: true,
		},
		{
			name:    "empty cart",
			req:     CreateOrderRequest{Type: "Dine-in", Items: nil, ClientID: &clientID},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			req:     CreateOrderRequest{Type: "Dine-in", Items: []CartItem{{MenuItemID: uuid.New(), Quantity: 0}}, ClientID: &clientID},
			wantErr: true,
		},
		{
			name:    "missing menu item id",
			req:     CreateOrderRequest{Type: "Dine-in", Items: []CartItem{{Quantity: 1}}, ClientID: &clientID},
			wantErr: true,
		},
		{
			name:    "no client identity",
			req:     CreateOrderRequest{Type: "Dine-in", Items: validCart()},
			wantErr: true,
		},
		{
			name:    "invalid payment method",
			req:     CreateOrderRequest{Type: "Dine-in", PaymentMethod: "Cheque", Items: validCart(), ClientID: &clientID},
			wantErr: true,
		},
		{
			name:    "valid payment method",
			req:     CreateOrderRequest{Type: "Dine-in", PaymentMethod: "Card", Items: validCart(), ClientID: &clientID},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Preparing", "Ready", "Completed", "Cancelled"} {
		if _, err := ParseOrderStatus(valid); err != nil {
			t.Errorf("ParseOrderStatus(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "pending", "Done", "Cooking"} {
		if _, err := ParseOrderStatus(invalid); err == nil {
			t.Errorf("ParseOrderStatus(%q) expected error", invalid)
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	terminal := map[OrderStatus]bool{
		StatusPending:   false,
		StatusPreparing: false,
		StatusReady:     false,
		StatusCompleted: true,
		StatusCancelled: true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestReserveTableRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ReserveTableRequest
		wantErr bool
	}{
		{"valid", ReserveTableRequest{BookedBy: "Alex", Contact: "555-1111", Guests: 4}, false},
		{"missing bookedBy", ReserveTableRequest{Contact: "555-1111", Guests: 4}, true},
		{"missing contact", ReserveTableRequest{BookedBy: "Alex", Guests: 4}, true},
		{"zero guests", ReserveTableRequest{BookedBy: "Alex", Contact: "555-1111"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", ValidationError("client name required"), 400},
		{"not found", NotFoundError("menu item not found: %s", uuid.Nil), 404},
		{"conflict", ConflictError("table is currently %s", TableOccupied), 400},
		{"internal", InternalError(ValidationError("wrapped")), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := ErrorStatus(tt.err)
			if status != tt.wantStatus {
				t.Errorf("ErrorStatus() status = %d, want %d", status, tt.wantStatus)
			}
		})
	}

	if status, msg := ErrorStatus(InternalError(nil)); status != 500 || msg != "internal server error" {
		t.Errorf("ErrorStatus(internal) = %d %q", status, msg)
	}
}
