package net

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	LinkScheme = "flipbook://"
	FeedPath   = "/feed"
)

var ErrBadLink = errors.New("not a flipbook link")

// ShareLink builds the link a viewer passes to join.
func ShareLink(host string, port int) string {
	return LinkScheme + net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseLink accepts flipbook://host:port or a bare host:port and returns
// the websocket URL of the host's feed.
func ParseLink(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return "", fmt.Errorf("%q: %w", link, ErrBadLink)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("%q: bad port: %w", link, ErrBadLink)
	}
	return "ws://" + net.JoinHostPort(host, port) + FeedPath, nil
}
