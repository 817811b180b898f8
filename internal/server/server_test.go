package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formcraft/pkg/ident"
	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/session"
)

func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	reducer := model.NewReducer(model.WithIDGenerator(ident.NewSequence("id")))
	sess := session.New(session.WithReducer(reducer))
	t.Cleanup(sess.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(sess, WithLogger(logger))
	require.NoError(t, err)
	return srv, sess
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) model.State {
	t.Helper()
	var state model.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func addField(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/fields", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp addFieldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetSchemaReturnsFreshState(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/v1/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeState(t, rec)
	assert.Equal(t, model.DefaultTitle, state.Schema.Title)
	assert.Empty(t, state.Schema.Fields)
	assert.False(t, state.Schema.IsMultiStep)
	assert.Contains(t, rec.Body.String(), `"fields":[]`)
}

func TestFieldLifecycle(t *testing.T) {
	srv, sess := newTestServer(t)

	first := addField(t, srv, `{"type":"text","label":"Name","required":true}`)
	second := addField(t, srv, `{"type":"select"}`)

	state := sess.Snapshot()
	require.Len(t, state.Schema.Fields, 2)
	assert.Equal(t, "Name", state.Schema.Fields[0].Label)
	assert.Equal(t, model.DefaultLabel(model.FieldTypeSelect), state.Schema.Fields[1].Label)
	assert.Equal(t, []string{"Option 1", "Option 2"}, state.Schema.Fields[1].Options)

	rec := do(t, srv, http.MethodPatch, "/v1/fields/"+first, `{"label":"Full name","placeholder":"Jane"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Full name", decodeState(t, rec).Schema.Fields[0].Label)

	rec = do(t, srv, http.MethodPost, "/v1/fields/reorder", `{"activeId":"`+second+`","overId":"`+first+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state = decodeState(t, rec)
	assert.Equal(t, second, state.Schema.Fields[0].ID)
	assert.Equal(t, first, state.Schema.Fields[1].ID)

	rec = do(t, srv, http.MethodPost, "/v1/fields/"+first+"/select", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, decodeState(t, rec).SelectedField)

	rec = do(t, srv, http.MethodDelete, "/v1/fields/"+first, "")
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeState(t, rec)
	require.Len(t, state.Schema.Fields, 1)
	assert.Empty(t, state.SelectedField)
}

func TestFieldErrors(t *testing.T) {
	srv, sess := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/fields", `{"type":"color"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidFieldType, decodeError(t, rec)["code"])

	rec = do(t, srv, http.MethodPost, "/v1/fields", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidBody, decodeError(t, rec)["code"])

	rec = do(t, srv, http.MethodPost, "/v1/fields", `{"type":"text","colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPatch, "/v1/fields/missing", `{"label":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, codeFieldNotFound, body["code"])
	assert.Contains(t, body["error"], "missing")

	rec = do(t, srv, http.MethodDelete, "/v1/fields/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Zero(t, sess.Seq(), "rejected requests must not commit transactions")
}

func TestSchemaPatch(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPatch, "/v1/schema", `{"title":"Signup","description":"Join us"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, "Signup", state.Schema.Title)
	assert.Equal(t, "Join us", state.Schema.Description)
}

func TestMultiStepFlow(t *testing.T) {
	srv, sess := newTestServer(t)
	addField(t, srv, `{"type":"text"}`)

	rec := do(t, srv, http.MethodPost, "/v1/steps/current", `{"step":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeNotMultiStep, decodeError(t, rec)["code"])

	rec = do(t, srv, http.MethodPost, "/v1/multistep/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	require.True(t, state.Schema.IsMultiStep)
	require.Len(t, state.Schema.Steps, 1)
	assert.Len(t, state.Schema.Steps[0].Fields, 1)

	rec = do(t, srv, http.MethodPost, "/v1/steps", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	state = decodeState(t, rec)
	require.Len(t, state.Schema.Steps, 2)
	stepID := state.Schema.Steps[1].ID
	assert.Equal(t, "Step 2", state.Schema.Steps[1].Title)

	rec = do(t, srv, http.MethodPatch, "/v1/steps/"+stepID, `{"title":"Details"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Details", decodeState(t, rec).Schema.Steps[1].Title)

	rec = do(t, srv, http.MethodPost, "/v1/steps/current", `{"step":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).CurrentStep)

	rec = do(t, srv, http.MethodPost, "/v1/steps/current", `{"step":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeStepOutOfRange, decodeError(t, rec)["code"])

	// The flat copy kept by the toggle can still be moved into a step.
	flatID := sess.Snapshot().Schema.Fields[0].ID
	rec = do(t, srv, http.MethodPost, "/v1/fields/"+flatID+"/move", `{"stepId":"`+stepID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state = decodeState(t, rec)
	assert.Empty(t, state.Schema.Fields)
	assert.Len(t, state.Schema.Steps[1].Fields, 1)

	rec = do(t, srv, http.MethodPost, "/v1/fields/"+flatID+"/move", `{"stepId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/v1/steps/"+stepID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeState(t, rec).Schema.Steps, 1)

	rec = do(t, srv, http.MethodDelete, "/v1/steps/"+stepID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeStepNotFound, decodeError(t, rec)["code"])
}

func TestTemplates(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.Equal(t, "contact", list[0]["slug"])

	rec = do(t, srv, http.MethodPost, "/v1/templates/contact", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, "Contact Us", state.Schema.Title)
	require.NotEmpty(t, state.Schema.Fields)
	for _, field := range state.Schema.Fields {
		assert.True(t, strings.HasPrefix(field.ID, "id-"), "template ids must be regenerated, got %q", field.ID)
	}

	rec = do(t, srv, http.MethodPost, "/v1/templates/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeTemplateNotFound, decodeError(t, rec)["code"])
}

func TestExport(t *testing.T) {
	srv, sess := newTestServer(t)
	addField(t, srv, `{"type":"email","label":"Email","required":true}`)
	before := sess.Seq()

	rec := do(t, srv, http.MethodGet, "/v1/export/schema?download=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	exported, err := model.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sess.Snapshot().Schema, exported)

	rec = do(t, srv, http.MethodGet, "/v1/export/react", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "useForm<FormData>")
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	rec = do(t, srv, http.MethodGet, "/v1/export/html?locale=es", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enviar")

	rec = do(t, srv, http.MethodGet, "/v1/export/pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeTargetNotFound, decodeError(t, rec)["code"])

	assert.Equal(t, before, sess.Seq(), "export must not commit transactions")
}

func TestValidate(t *testing.T) {
	srv, _ := newTestServer(t)
	nameID := addField(t, srv, `{"type":"text","label":"Name","required":true,"validation":{"min":3}}`)
	toggleID := addField(t, srv, `{"type":"radio","label":"Subscribe","options":["yes","no"]}`)
	emailID := addField(t, srv, `{"type":"email","label":"Email","required":true,"conditional":{"dependsOn":"`+toggleID+`","condition":"equals","value":"yes"}}`)

	rec := do(t, srv, http.MethodPost, "/v1/validate", `{"values":{"`+nameID+`":"Al"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Errors, nameID)
	assert.NotContains(t, resp.Errors, emailID, "hidden fields are not validated")
	assert.Equal(t, []string{nameID, emailID}, resp.Required)

	rec = do(t, srv, http.MethodPost, "/v1/validate", `{"values":{"`+nameID+`":"Alice","`+toggleID+`":"yes"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = validateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Errors, emailID)

	rec = do(t, srv, http.MethodPost, "/v1/validate", `{"locale":"es","values":{"`+toggleID+`":"yes","`+emailID+`":"a@b.co"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = validateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Errors, nameID)
	assert.Contains(t, resp.Errors[nameID], "Este campo es obligatorio")

	rec = do(t, srv, http.MethodPost, "/v1/validate", `{"values":{"`+nameID+`":"Alice","`+toggleID+`":"no"}}`)
	resp = validateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
}

func TestEventsStreamSnapshots(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/events", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var evt session.Event
	require.NoError(t, wsjson.Read(ctx, conn, &evt))
	assert.Equal(t, snapshotAction, evt.Action)
	assert.Zero(t, evt.Seq)

	resp, err := http.Post(ts.URL+"/v1/fields", "application/json", bytes.NewBufferString(`{"type":"number"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, wsjson.Read(ctx, conn, &evt))
	assert.Equal(t, uint64(1), evt.Seq)
	assert.Equal(t, "add_field", evt.Action)
	require.Len(t, evt.State.Schema.Fields, 1)
	assert.Equal(t, model.FieldTypeNumber, evt.State.Schema.Fields[0].Type)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
}

func TestNewRequiresSession(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func serveAsync(ctx context.Context, srv *Server, addr string) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, addr) }()
	return errc
}

func TestListenAndServeAddressInUse(t *testing.T) {
	srv, sess := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, cancel := sess.Subscribe()
	defer cancel()

	select {
	case err := <-serveAsync(context.Background(), srv, ln.Addr().String()):
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server: listen")
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return on a bind failure")
	}
	assert.Equal(t, 1, sess.Subscribers(), "a failed start leaves the session open")
}

func TestListenAndServeShutsDownOnCancel(t *testing.T) {
	srv, sess := newTestServer(t)
	_, cancelSub := sess.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	errc := serveAsync(ctx, srv, "127.0.0.1:0")
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
	assert.Equal(t, 0, sess.Subscribers())
}
