package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
)

const (
	igdbBaseURL      = "https://api.igdb.com/v4"
	twitchAuthURL    = "https://id.twitch.tv/oauth2/token"
	igdbTokenMargin  = time.Minute
	igdbSearchFields = "name,summary,first_release_date,cover.url,platforms.name,themes.name,genres.name,game_modes.name,involved_companies.company.name,involved_companies.developer,involved_companies.publisher"
)

// IGDBClient talks to the Internet Game Database. Requests authenticate with
// a Twitch client-credentials token that is cached until shortly before it
// expires.
type IGDBClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	authURL      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewIGDB(clientID, clientSecret string, timeout time.Duration) *IGDBClient {
	return &IGDBClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      igdbBaseURL,
		authURL:      twitchAuthURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (c *IGDBClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}
	if c.clientID == "" || c.clientSecret == "" {
		return "", errors.New("igdb client id and secret are required")
	}

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitch auth returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode twitch auth response: %w", err)
	}
	if body.AccessToken == "" || body.ExpiresIn == 0 {
		return "", errors.New("twitch auth response missing token")
	}

	c.accessToken = body.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - igdbTokenMargin)
	return c.accessToken, nil
}

// query posts an Apicalypse query and decodes the top-level array response.
func (c *IGDBClient) query(ctx context.Context, endpoint, apicalypse string) ([]map[string]any, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(apicalypse))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var results []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return results, nil
}

func (c *IGDBClient) Search(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	query = strings.ReplaceAll(query, `"`, "")
	apicalypse := fmt.Sprintf(`search "%s"; fields %s; limit %d;`, query, igdbSearchFields, limit)
	return c.query(ctx, "games", apicalypse)
}

func (c *IGDBClient) GetByID(ctx context.Context, id string) (map[string]any, error) {
	gameID, err := strconv.Atoi(id)
	if err != nil {
		return nil, ErrNotFound
	}

	apicalypse := fmt.Sprintf("fields %s; where id = %d;", igdbSearchFields, gameID)
	results, err := c.query(ctx, "games", apicalypse)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}

var igdbPlatforms = map[string]string{
	"PC (Microsoft Windows)": "pc",
	"PlayStation 5":          "ps5",
	"PlayStation 4":          "ps4",
	"PlayStation 3":          "ps3",
	"Xbox Series X|S":        "xbox_series",
	"Xbox One":               "xbox_one",
	"Nintendo Switch":        "switch",
	"iOS":                    "mobile",
	"Android":                "mobile",
}

// ToGameCreate maps an IGDB payload onto the game creation shape.
func ToGameCreate(data map[string]any) *dto.GameCreateRequest {
	var platforms []string
	seen := map[string]bool{}
	for _, name := range nameList(data, "platforms") {
		mapped, ok := igdbPlatforms[name]
		if !ok || seen[mapped] {
			continue
		}
		seen[mapped] = true
		platforms = append(platforms, mapped)
	}

	var developers, publishers []string
	for _, item := range asList(data, "involved_companies") {
		company, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := asString(asMap(company, "company"), "name")
		if name == "" {
			continue
		}
		if flag, _ := company["developer"].(bool); flag {
			developers = append(developers, name)
		}
		if flag, _ := company["publisher"].(bool); flag {
			publishers = append(publishers, name)
		}
	}

	description := asString(data, "summary")
	if description == "" {
		description = asString(data, "storyline")
	}

	var tags []string
	tags = append(tags, nameList(data, "genres")...)
	tags = append(tags, nameList(data, "themes")...)
	tags = append(tags, nameList(data, "game_modes")...)

	req := &dto.GameCreateRequest{}
	req.Title = stringOr(data, "name", "Unknown")
	req.Description = description
	req.ReleaseDate = unixDate(data, "first_release_date")
	req.CoverImageURL = CoverURL(data)
	req.ExternalID = StringID(data["id"])
	req.ExternalSource = "igdb"
	req.Platforms = platforms
	req.Developers = developers
	req.Publishers = publishers
	req.Tags = tags
	return req
}
