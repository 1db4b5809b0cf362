// constants.go
package resolver

// Pinned dependency versions
const (
	LibuvVersion    = "1.34.2"
	LibeventVersion = "2.1.11"
	ZlibVersion     = "1.2.11"
	OpenSSLVersion  = "1.1.1e"
	MbedTLSVersion  = "2.16.3"
)

// Dependency names
const (
	DepLibuv    = "libuv"
	DepLibevent = "libevent"
	DepZlib     = "zlib"
	DepOpenSSL  = "openssl"
	DepMbedTLS  = "mbedtls"
)

// CMake definition names understood by the libwebsockets build
const (
	DefWithoutTestApps     = "LWS_WITHOUT_TESTAPPS"
	DefLinkTestAppsDynamic = "LWS_LINK_TESTAPPS_DYNAMIC"
	DefWithShared          = "LWS_WITH_SHARED"
	DefWithStatic          = "LWS_WITH_STATIC"
	DefStaticPIC           = "LWS_STATIC_PIC"
	DefWithLibuv           = "LWS_WITH_LIBUV"
	DefWithLibevent        = "LWS_WITH_LIBEVENT"
	DefWithZlib            = "LWS_WITH_ZLIB"
	DefWithBundledZlib     = "LWS_WITH_BUNDLED_ZLIB"
	DefWithoutExtensions   = "LWS_WITHOUT_EXTENSIONS"
	DefWithZipFops         = "LWS_WITH_ZIP_FOPS"
	DefWithSSL             = "LWS_WITH_SSL"
	DefWithMbedTLS         = "LWS_WITH_MBEDTLS"
	DefWithoutBuiltinSHA1  = "LWS_WITHOUT_BUILTIN_SHA1"
	DefIPv6                = "LWS_IPV6"
	DefWithRanges          = "LWS_WITH_RANGES"
	DefRoleMQTT            = "LWS_ROLE_MQTT"
	DefWithHTTP2           = "LWS_WITH_HTTP2"
	DefWithLwsServer       = "LWS_WITH_LWSWS"
	DefWithPlugins         = "LWS_WITH_PLUGINS"
)
