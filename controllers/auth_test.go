package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"ootdapi/dbhelper"
	"ootdapi/models"
	"ootdapi/test"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const fakeIdToken = "eyJhbGciOiJSUzI1NiJ9.fake.fake"

func TestAuthGoogle(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	param := models.GoogleAuthSignIn{
		IdToken:  fakeIdToken,
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/google/v2?verify=true", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)

	assert.Equal(t, "fake@example.com", resp["email"], resp)
	assert.Equal(t, true, resp["new"], resp)
	assert.Equal(t, "pictureurl", resp["avatar"], resp)
	assert.NotEmpty(t, resp["access_token"], resp)

	var user models.UserAccount

	db.First(&user, "email = ?", "fake@example.com")

	assert.Equal(t, "fake@example.com", user.Email)
	assert.Equal(t, "STARTED_AUTH", user.Status)
	assert.Equal(t, models.PlatformIOS, user.Platform)

	param_2 := models.SignUpIn{
		IdToken:  fakeIdToken,
		Platform: "ios",
		ProfileIn: models.ProfileIn{
			Name:      "My Name",
			UTMSource: "appstore",
			Gender:    "female",
		},
	}
	req_2 := test.NewJSONRequest("POST", "/auth/google/v2", param_2)
	rec_2 := httptest.NewRecorder()

	e.ServeHTTP(rec_2, req_2)

	assert.Equal(t, http.StatusOK, rec_2.Code, rec_2.Body.String())

	db.First(&user, "email = ?", "fake@example.com")

	assert.Equal(t, "fake@example.com", user.Email)
	assert.Equal(t, "FINISHED_AUTH", user.Status)
	assert.Equal(t, models.PlatformIOS, user.Platform)
	assert.Equal(t, "My Name", user.Name)
	assert.Equal(t, "appstore", user.UTMSource)
	if assert.NotNil(t, user.Gender) {
		assert.Equal(t, "female", *user.Gender)
	}

	param_3 := models.GoogleAuthSignIn{
		IdToken:  fakeIdToken,
		Platform: "ios",
	}
	req_3 := test.NewJSONRequest("POST", "/auth/google/v2?verify=true", param_3)
	rec_3 := httptest.NewRecorder()

	e.ServeHTTP(rec_3, req_3)

	var resp3 echo.Map
	json.Unmarshal(rec_3.Body.Bytes(), &resp3)

	assert.Equal(t, fmt.Sprint(resp3["id"]), fmt.Sprint(user.ID), rec_3.Body.String())
	assert.Equal(t, false, resp3["new"], rec_3.Body.String())
}

func TestRefreshToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	userDb := test.FakeUserV2(db, "name", "refresh@example.com")
	refreshToken, err := GenerateRefreshToken(fmt.Sprint(userDb.ID))
	if err != nil {
		fmt.Println("Error generating refesh", err)
	}
	param := echo.Map{
		"refresh_token": refreshToken,
	}
	req := test.NewJSONRequest("POST", "/auth/refresh-token", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUserMe(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/auth/me", strconv.FormatUint(uint64(user.ID), 10), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.UserMeInfoOut
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, user.Email, resp.Email)
	assert.Equal(t, user.Name, resp.Name)
	assert.True(t, resp.DailySuggestionEnabled)
}

func TestSettingsUpdate(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	param := models.UserSettingsIn{
		ReceiveNotifications:   true,
		DailySuggestionEnabled: false,
	}
	req := test.NewJSONAuthRequest("POST", "/auth/settings", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.True(t, updated.ReceiveNotifications)
	assert.False(t, updated.DailySuggestionEnabled)
}

func TestRegisterPush(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	param := models.UserPushIn{Token: "push-token-abc", Platform: "android"}
	req := test.NewJSONAuthRequest("POST", "/auth/register-push", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token models.UserPushToken
	db.Where("token = ? and user_account_id = ?", "push-token-abc", user.ID).First(&token)
	assert.Equal(t, models.PlatformAndroid, token.Platform)
	assert.True(t, token.Active)
}
