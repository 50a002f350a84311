package specsrepo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"carrental/util/httpx"
)

type httpRepo struct {
	apiKey string
	client *http.Client
}

func NewHTTP(apiKey string) Repo { return &httpRepo{apiKey: apiKey, client: httpx.Client()} }

func (r *httpRepo) Lookup(carMake, carModel string, year int) ([]Spec, error) {
	params := url.Values{}
	if carMake != "" {
		params.Set("make", carMake)
	}
	if carModel != "" {
		params.Set("model", carModel)
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	req, err := http.NewRequest("GET", "https://api.api-ninjas.com/v1/cars?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api-ninjas lookup failed: %s", resp.Status)
	}

	var out []Spec
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
