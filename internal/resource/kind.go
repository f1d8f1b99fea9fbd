package resource

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the tag identifying a type of management entity, matching the
// category names used by the broker's management API.
type Kind string

const (
	Broker                 Kind = "broker"
	VirtualHostNode        Kind = "virtualhostnode"
	VirtualHost            Kind = "virtualhost"
	Exchange               Kind = "exchange"
	Queue                  Kind = "queue"
	Connection             Kind = "connection"
	AuthenticationProvider Kind = "authenticationprovider"
	GroupProvider          Kind = "groupprovider"
	Group                  Kind = "group"
	KeyStore               Kind = "keystore"
	TrustStore             Kind = "truststore"
	AccessControlProvider  Kind = "accesscontrolprovider"
	Port                   Kind = "port"
	Plugin                 Kind = "plugin"
	PreferencesProvider    Kind = "preferencesprovider"
	BrokerLogger           Kind = "brokerlogger"
	VirtualHostLogger      Kind = "virtualhostlogger"

	// Kinds that are not entities in the broker's model hierarchy.
	Query        Kind = "query"
	QueryBrowser Kind = "queryBrowser"
	Logs         Kind = "logs"
)

// EntityKinds are the kinds that make up the broker's model hierarchy.
var EntityKinds = []Kind{
	Broker,
	VirtualHostNode,
	VirtualHost,
	Exchange,
	Queue,
	Connection,
	AuthenticationProvider,
	GroupProvider,
	Group,
	KeyStore,
	TrustStore,
	AccessControlProvider,
	Port,
	Plugin,
	PreferencesProvider,
	BrokerLogger,
	VirtualHostLogger,
}

func (k Kind) String() string { return string(k) }

// Title is the kind with its first letter upper-cased, e.g. "Virtualhost".
func (k Kind) Title() string {
	r, size := utf8.DecodeRuneInString(string(k))
	if r == utf8.RuneError {
		return string(k)
	}
	return string(unicode.ToUpper(r)) + string(k)[size:]
}

// Plural is the attribute name under which the management API lists
// children of this kind.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// KindFromPlural returns the entity kind listed under the given attribute
// name.
func KindFromPlural(s string) (Kind, bool) {
	singular, ok := strings.CutSuffix(s, "s")
	if !ok {
		return "", false
	}
	for _, k := range EntityKinds {
		if string(k) == singular {
			return k, true
		}
	}
	return "", false
}
