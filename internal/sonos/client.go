// Package sonos talks to a Sonos speaker's UPnP AVTransport service to read
// what is currently playing. The speaker endpoint is an owned cache on the
// client, invalidated on failure or reconfiguration, instead of a package
// global.
package sonos

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	controlPath  = "/MediaRenderer/AVTransport/Control"
	transportURN = "urn:schemas-upnp-org:service:AVTransport:1"
	speakerPort  = 1400
	probeTimeout = 3 * time.Second
	statePlaying = "PLAYING"
)

// NowPlaying describes the speaker's current track. The zero value means
// nothing is playing, which is also what callers get on any speaker error.
type NowPlaying struct {
	Playing  bool   `json:"playing"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	AlbumArt string `json:"albumArt"`
}

type Client struct {
	httpc *http.Client
	port  int

	mu        sync.Mutex
	speakerIP string
	endpoint  string // cached control URL, empty until resolved
}

func New(speakerIP string) *Client {
	return &Client{
		httpc:     &http.Client{Timeout: probeTimeout},
		port:      speakerPort,
		speakerIP: speakerIP,
	}
}

func (c *Client) SpeakerIP() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speakerIP
}

// SetSpeakerIP reconfigures the target speaker and drops the cached endpoint.
func (c *Client) SetSpeakerIP(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speakerIP = ip
	c.endpoint = ""
}

// Invalidate drops the cached endpoint so the next call re-resolves it.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = ""
}

// resolveEndpoint returns the control URL, probing the speaker first when
// the cache is cold. The probe runs outside the lock so configuration reads
// never wait on a slow speaker, and its GetTransportInfo response is handed
// back for reuse.
func (c *Client) resolveEndpoint(ctx context.Context) (endpoint string, probe []byte, err error) {
	c.mu.Lock()
	ip := c.speakerIP
	endpoint = c.endpoint
	c.mu.Unlock()

	if ip == "" {
		return "", nil, fmt.Errorf("no speaker configured")
	}
	if endpoint != "" {
		return endpoint, nil, nil
	}

	endpoint = fmt.Sprintf("http://%s:%d%s", ip, c.port, controlPath)
	probe, err = c.soapCall(ctx, endpoint, "GetTransportInfo")
	if err != nil {
		return "", nil, fmt.Errorf("probe speaker %s: %w", ip, err)
	}

	c.mu.Lock()
	// Cache only if the target was not reconfigured mid-probe.
	if c.speakerIP == ip {
		c.endpoint = endpoint
	}
	c.mu.Unlock()
	return endpoint, probe, nil
}

// NowPlaying reads the speaker's transport state and track metadata. Any
// failure invalidates the cached endpoint. On a cold cache the probe's
// transport response is reused, so a read is two SOAP calls either way.
func (c *Client) NowPlaying(ctx context.Context) (*NowPlaying, error) {
	endpoint, body, err := c.resolveEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	if body == nil {
		body, err = c.soapCall(ctx, endpoint, "GetTransportInfo")
		if err != nil {
			c.Invalidate()
			return nil, err
		}
	}
	var transport struct {
		State string `xml:"Body>GetTransportInfoResponse>CurrentTransportState"`
	}
	if err := xml.Unmarshal(body, &transport); err != nil {
		c.Invalidate()
		return nil, fmt.Errorf("decode transport info: %w", err)
	}
	if transport.State != statePlaying {
		return &NowPlaying{}, nil
	}

	body, err = c.soapCall(ctx, endpoint, "GetPositionInfo")
	if err != nil {
		c.Invalidate()
		return nil, err
	}
	var position struct {
		TrackMetaData string `xml:"Body>GetPositionInfoResponse>TrackMetaData"`
	}
	if err := xml.Unmarshal(body, &position); err != nil {
		c.Invalidate()
		return nil, fmt.Errorf("decode position info: %w", err)
	}

	np := parseTrackMetadata(position.TrackMetaData)
	np.Playing = true
	if np.AlbumArt != "" && strings.HasPrefix(np.AlbumArt, "/") {
		np.AlbumArt = fmt.Sprintf("http://%s:%d%s", c.SpeakerIP(), c.port, np.AlbumArt)
	}
	return np, nil
}

func (c *Client) soapCall(ctx context.Context, endpoint, action string) ([]byte, error) {
	envelope := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
  <s:Body>
    <u:%s xmlns:u="%s"><InstanceID>0</InstanceID></u:%s>
  </s:Body>
</s:Envelope>`, action, transportURN, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(envelope))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", fmt.Sprintf(`"%s#%s"`, transportURN, action))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sonos %s: http %d", action, resp.StatusCode)
	}
	return body, nil
}

// parseTrackMetadata extracts title/artist/album from the DIDL-Lite document
// embedded in GetPositionInfo. Missing or unparsable metadata yields an
// empty track rather than an error.
func parseTrackMetadata(didl string) *NowPlaying {
	np := &NowPlaying{}
	if didl == "" || didl == "NOT_IMPLEMENTED" {
		return np
	}

	var doc struct {
		Item struct {
			Title    string `xml:"title"`
			Creator  string `xml:"creator"`
			Album    string `xml:"album"`
			AlbumArt string `xml:"albumArtURI"`
		} `xml:"item"`
	}
	if err := xml.Unmarshal([]byte(didl), &doc); err != nil {
		return np
	}

	np.Title = doc.Item.Title
	np.Artist = doc.Item.Creator
	np.Album = doc.Item.Album
	np.AlbumArt = doc.Item.AlbumArt
	return np
}
