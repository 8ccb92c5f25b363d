package operator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grachmannico95/topup-gateway/internal/config"
	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestResult_Validate(t *testing.T) {
	full := Result{Code: "0", Message: "ok", TransactionID: "op-1", CommandStatus: "done"}
	require.NoError(t, full.Validate())

	var nilResult *Result
	assert.ErrorIs(t, nilResult.Validate(), ErrUnknownResponse)

	for _, mutate := range []func(r *Result){
		func(r *Result) { r.Code = "" },
		func(r *Result) { r.Message = "" },
		func(r *Result) { r.TransactionID = "" },
		func(r *Result) { r.CommandStatus = "" },
	} {
		r := full
		mutate(&r)
		assert.ErrorIs(t, r.Validate(), ErrUnknownResponse)
	}

	assert.True(t, full.Succeeded())
	assert.False(t, (&Result{Code: "00"}).Succeeded())
}

func TestProxy_ConnectionRefusedIsNotAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var out map[string]interface{}
	err := NewProxy(url, time.Second).post(context.Background(), call{path: "/x", body: map[string]string{}}, &out)
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.NotErrorIs(t, err, ErrUnknownResponse)
}

func TestProxy_AmbiguousFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "read timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops"))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "connection dropped after request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				conn, _, err := w.(http.Hijacker).Hijack()
				if err == nil {
					_ = conn.Close()
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			var out map[string]interface{}
			err := NewProxy(srv.URL, 100*time.Millisecond).post(context.Background(), call{path: "/x", body: map[string]string{"a": "b"}}, &out)
			assert.ErrorIs(t, err, ErrUnknownResponse)
			assert.NotErrorIs(t, err, ErrNotAvailable)
		})
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 0, "b": "17", "c": null}`), &v))
	assert.Equal(t, "0", v.A.String())
	assert.Equal(t, "17", v.B.String())
	assert.Equal(t, "", v.C.String())
}

func TestMCI_Charge(t *testing.T) {
	var recharged atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("/recharge", func(w http.ResponseWriter, r *http.Request) {
		recharged.Store(true)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var body mciRechargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "09125067064", body.Mobile)
		assert.Equal(t, int64(10000), body.Amount)
		assert.Equal(t, "42", body.RequestID)

		writeJSON(w, map[string]interface{}{"result_code": 0, "message": "done", "ref_num": 99887, "status": "COMPLETED"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mci := NewMCI(NewProxy(srv.URL, time.Second), "user", "pass")
	res, err := mci.Charge(context.Background(), ChargeRequest{TransactionID: 42, Consumer: "09125067064", Amount: 10000, Action: domain.ActionTopUp})
	require.NoError(t, err)
	assert.True(t, recharged.Load())
	assert.Equal(t, &Result{Code: "0", Message: "done", TransactionID: "99887", CommandStatus: "COMPLETED", Token: "tok-1"}, res)
	assert.NoError(t, res.Validate())
}

func TestMCI_TokenFailureIsNotAvailable(t *testing.T) {
	var recharged atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("garbage"))
	})
	mux.HandleFunc("/recharge", func(w http.ResponseWriter, r *http.Request) {
		recharged.Store(true)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := NewMCI(NewProxy(srv.URL, time.Second), "u", "p").Charge(context.Background(), ChargeRequest{TransactionID: 1})
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.NotErrorIs(t, err, ErrUnknownResponse)
	assert.False(t, recharged.Load())
}

func TestMCI_AmbiguousRechargeKeepsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"token": "tok-2"})
	})
	mux.HandleFunc("/recharge", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := NewMCI(NewProxy(srv.URL, time.Second), "u", "p").Charge(context.Background(), ChargeRequest{TransactionID: 1})
	assert.ErrorIs(t, err, ErrUnknownResponse)
	require.NotNil(t, res)
	assert.Equal(t, "tok-2", res.Token)
}

func TestMTN_VendorAndCommandRouting(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)

		var body mtnChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "infotech", body.Vendor)
		assert.Equal(t, "it-user", body.Username)
		assert.Equal(t, "Ali", body.CustomerName)

		writeJSON(w, map[string]interface{}{"error_code": "0", "message": "ok", "trace_id": "t-1", "command_status": "OK"})
	}))
	defer srv.Close()

	proxy := NewProxy(srv.URL, time.Second)
	mtn := NewMTN(map[string]Vendor{
		"infotech": {Name: "infotech", Proxy: proxy, Username: "it-user", Password: "x"},
		"mtn":      {Name: "mtn", Proxy: proxy, Username: "mtn-user", Password: "y"},
	}, "mtn")

	res, err := mtn.Charge(context.Background(), ChargeRequest{
		TransactionID: 5,
		Consumer:      "09351234567",
		Amount:        5000,
		Action:        domain.ActionPayBill,
		Vendor:        "infotech",
		CustomerName:  "Ali",
	})
	require.NoError(t, err)
	assert.Equal(t, "/bill-payment", path.Load())
	assert.Equal(t, "t-1", res.TransactionID)
}

func TestMTN_VendorNameIgnoresCase(t *testing.T) {
	var vendors []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body mtnChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		vendors = append(vendors, body.Vendor)
		mu.Unlock()

		writeJSON(w, map[string]interface{}{"error_code": "0", "message": "ok", "trace_id": "t-1", "command_status": "OK"})
	}))
	defer srv.Close()

	proxy := NewProxy(srv.URL, time.Second)
	mtn := NewMTN(map[string]Vendor{
		"InfoTech": {Name: "infotech", Proxy: proxy, Username: "it-user", Password: "x"},
		"mtn":      {Name: "mtn", Proxy: proxy, Username: "mtn-user", Password: "y"},
	}, "MTN")

	for _, name := range []string{"INFOTECH", "Infotech", "infotech", ""} {
		_, err := mtn.Charge(context.Background(), ChargeRequest{Consumer: "09351234567", Amount: 5000, Action: domain.ActionTopUp, Vendor: name})
		require.NoError(t, err, name)
	}

	assert.Equal(t, []string{"infotech", "infotech", "infotech", "mtn"}, vendors)
}

func TestMTN_UnknownVendorIsNotAvailable(t *testing.T) {
	mtn := NewMTN(map[string]Vendor{}, "mtn")

	_, err := mtn.Charge(context.Background(), ChargeRequest{Action: domain.ActionTopUp, Vendor: "acme"})
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestJiringAndRightel_BasicAuth(t *testing.T) {
	var gotType atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "u", user)
		assert.Equal(t, "p", pass)

		switch r.URL.Path {
		case "/charge":
			writeJSON(w, map[string]interface{}{"code": 0, "description": "ok", "transaction_id": 1, "state": "DONE"})
		case "/topup":
			var body rightelTopupRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotType.Store(body.Type)
			writeJSON(w, map[string]interface{}{"status_code": 12, "status_message": "rejected", "operator_ref": "r-1", "order_status": "FAILED"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	proxy := NewProxy(srv.URL, time.Second)

	res, err := NewJiring(proxy, "u", "p").Charge(context.Background(), ChargeRequest{Action: domain.ActionWallet})
	require.NoError(t, err)
	assert.True(t, res.Succeeded())

	res, err = NewRightel(proxy, "u", "p").Charge(context.Background(), ChargeRequest{Action: domain.ActionWow})
	require.NoError(t, err)
	assert.False(t, res.Succeeded())
	assert.Equal(t, "12", res.Code)
	assert.Equal(t, "wow", gotType.Load())
}

func TestNewRegistryFromConfig(t *testing.T) {
	reg, err := NewRegistryFromConfig(map[string]config.OperatorConfig{
		"mci":     {ID: 1, Enabled: true, BaseURL: "http://mci"},
		"mtn":     {ID: 2, Enabled: true, BaseURL: "http://mtn", Vendors: map[string]config.VendorConfig{"infotech": {}, "mtn": {}}},
		"jiring":  {ID: 3, Enabled: false},
		"rightel": {ID: 4, Enabled: true, BaseURL: "http://rightel"},
	})
	require.NoError(t, err)

	_, ok := reg.Get(domain.OperatorMCI)
	assert.True(t, ok)
	_, ok = reg.Get(domain.OperatorJiring)
	assert.False(t, ok)

	d, ok := reg.Get(domain.OperatorMTN)
	require.True(t, ok)
	mtn := d.(*MTN)
	assert.Equal(t, "mtn", mtn.defaultVendor)
	assert.Equal(t, "infotech", mtn.vendors["infotech"].Name)

	reg, err = NewRegistryFromConfig(map[string]config.OperatorConfig{
		"mtn": {ID: 2, Enabled: true, BaseURL: "http://mtn", Vendors: map[string]config.VendorConfig{"InfoTech": {}, "MTN": {}}},
	})
	require.NoError(t, err)
	d, _ = reg.Get(domain.OperatorMTN)
	mtn = d.(*MTN)
	assert.Equal(t, "mtn", mtn.defaultVendor)
	assert.Contains(t, mtn.vendors, "infotech")

	_, err = NewRegistryFromConfig(map[string]config.OperatorConfig{"acme": {ID: 9, Enabled: true}})
	assert.Error(t, err)
}

func TestDispatcherFunc(t *testing.T) {
	boom := errors.New("boom")
	d := DispatcherFunc(func(ctx context.Context, req ChargeRequest) (*Result, error) { return nil, boom })

	_, err := d.Charge(context.Background(), ChargeRequest{})
	assert.ErrorIs(t, err, boom)
}
