/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vennhq/venn"
	"github.com/vennhq/venn/config"
	"github.com/vennhq/venn/database/mocks"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response != nil {
		err := json.NewDecoder(resp.Body).Decode(&s.Response)
		if err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// setupRouter builds the API against a mocked datasource so handlers can be
// exercised without postgres or redis.
func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockDataSource) {
	t.Helper()
	config.MockConfig(&config.Configuration{})

	mockDS := new(mocks.MockDataSource)
	v, err := venn.NewVennWithCache(mockDS, nil)
	if err != nil {
		t.Fatalf("failed to set up engine: %v", err)
	}
	return NewAPI(v).Router(), mockDS
}
