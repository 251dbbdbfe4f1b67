// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ns provides namespace constants used by xmltok's
// xmlstreamadapter package.
package ns // import "lithium.im/xmltok/internal/ns"

// XML is the namespace implicitly bound to the "xml" prefix (used by
// xml:lang, xml:space, and so on), reserved by the XML Namespaces
// recommendation and never declared explicitly in a document.
const XML = "http://www.w3.org/XML/1998/namespace"
