package models_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tendersdz/models"

	"github.com/stretchr/testify/require"
)

func TestTenderStatusLabel(t *testing.T) {
	cases := map[models.TenderStatus]string{
		"IDENTIFIED":  "Identified",
		" studying ":  "Studying",
		"won":         "Won",
		"in_progress": "in_progress",
		"":            "UNKNOWN",
	}
	for in, want := range cases {
		require.Equal(t, want, in.Label(), "status %q", in)
	}
	require.True(t, models.TenderStatus("lost").Closed())
	require.False(t, models.StatusSubmitted.Closed())
}

func TestValidateTenderInput(t *testing.T) {
	in := models.NewTenderInput()
	err := models.Validate(in)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Rule
	}
	require.Equal(t, "required", fields["client_id"])
	require.Equal(t, "required", fields["title"])
	require.NotContains(t, fields, "currency")

	in.ClientID = 1
	in.Title = "Routers for the ministry"
	require.NoError(t, models.Validate(in))

	in.Status = "DRAFT"
	require.Error(t, models.Validate(in))
}

func TestValidatePatchAllowsMissingFields(t *testing.T) {
	require.NoError(t, models.Validate(models.ClientPatch{}))

	empty := ""
	err := models.Validate(models.ClientPatch{Name: &empty})
	require.Error(t, err)
	require.Contains(t, err.Error(), "name must not be empty")

	qty := -1.0
	require.Error(t, models.Validate(models.TenderItemPatch{Qty: &qty}))
}

func TestValidateTenderItemInput(t *testing.T) {
	in := models.NewTenderItemInput(3)
	in.Description = "Core switch"
	err := models.Validate(in)
	require.Error(t, err)
	require.Contains(t, err.Error(), "qty must be greater than 0")

	in.Qty = 2
	require.NoError(t, models.Validate(in))
}

func TestTimestampJSON(t *testing.T) {
	var tender models.Tender
	body := `{"id":1,"client_id":2,"title":"t","currency":"DZD","status":"IDENTIFIED","submission_deadline":"2025-03-01T10:30:00"}`
	require.NoError(t, json.Unmarshal([]byte(body), &tender))
	require.NotNil(t, tender.SubmissionDeadline)
	require.Equal(t, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), tender.SubmissionDeadline.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"submission_deadline":null}`), &tender))
	require.Nil(t, tender.SubmissionDeadline)

	out, err := json.Marshal(models.Timestamp{Time: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Equal(t, `"2025-03-01T00:00:00Z"`, string(out))
}

func TestPatchApply(t *testing.T) {
	tender := models.Tender{ID: 7, ClientID: 1, Title: "Old", Currency: "DZD", Status: models.StatusIdentified}
	title := "New"
	models.TenderPatch{Title: &title}.Apply(&tender)
	require.Equal(t, "New", tender.Title)
	require.Equal(t, "DZD", tender.Currency)
	require.Equal(t, models.StatusIdentified, tender.Status)
}

func TestTenderPatchDeadlineJSON(t *testing.T) {
	title := "x"
	out, err := json.Marshal(models.TenderPatch{Title: &title})
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"x"}`, string(out))

	out, err = json.Marshal(models.TenderPatch{SubmissionDeadline: models.SetTimestamp(nil)})
	require.NoError(t, err)
	require.JSONEq(t, `{"submission_deadline":null}`, string(out))

	ts := models.Timestamp{Time: time.Date(2026, 12, 1, 14, 30, 0, 0, time.UTC)}
	out, err = json.Marshal(models.TenderPatch{SubmissionDeadline: models.SetTimestamp(&ts)})
	require.NoError(t, err)
	require.JSONEq(t, `{"submission_deadline":"2026-12-01T14:30:00Z"}`, string(out))

	var patch models.TenderPatch
	require.NoError(t, json.Unmarshal([]byte(`{"submission_deadline":null}`), &patch))
	require.True(t, patch.SubmissionDeadline.Set)
	require.Nil(t, patch.SubmissionDeadline.Value)

	patch = models.TenderPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"y"}`), &patch))
	require.False(t, patch.SubmissionDeadline.Set)
}

func TestPatchApplyDeadline(t *testing.T) {
	ts := models.Timestamp{Time: time.Date(2026, 12, 1, 14, 30, 0, 0, time.UTC)}
	tender := models.Tender{ID: 7, Title: "Old", SubmissionDeadline: &ts}

	title := "New"
	models.TenderPatch{Title: &title}.Apply(&tender)
	require.NotNil(t, tender.SubmissionDeadline)
	require.Equal(t, ts.Time, tender.SubmissionDeadline.Time)

	models.TenderPatch{SubmissionDeadline: models.SetTimestamp(nil)}.Apply(&tender)
	require.Nil(t, tender.SubmissionDeadline)
}

func TestTimestampDateTime(t *testing.T) {
	ts, err := models.ParseTimestamp("2026-12-01T14:30")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 12, 1, 14, 30, 0, 0, time.UTC), ts.Time)
	require.Equal(t, "2026-12-01T14:30", ts.DateTime())
}
