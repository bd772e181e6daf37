// Package dotzen reads configuration values from environment variables,
// .env files and YAML/TOML/JSON files, optionally decrypts them, and casts
// them to typed values.
//
// Values are resolved through a Chain of Sources, first match wins:
//
//	chain, err := dotzen.NewBuilder().
//		AddEnvironment().
//		AddDotenv(".env").
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	cfg := dotzen.NewConfig(chain)
//
//	port, err := dotzen.Int(cfg, "PORT", dotzen.Default("8080"))
//	hosts, err := dotzen.List(cfg, "ALLOWED_HOSTS")
//	timeout, err := dotzen.Get(cfg, "TIMEOUT", dotzen.ToDuration)
//
// # Encrypted values
//
// A SecureConfig decrypts every value it finds before casting it. The stored
// form is produced with Encrypt or EncryptForEnv:
//
//	stored, _ := dotzen.EncryptForEnv("postgres_password_123") // cG9zdGdyZXNfcGFzc3dvcmRfMTIz
//
//	secure := dotzen.NewSecureConfig(cfg, "base64")
//	dbPassword, err := dotzen.String(secure, "DATABASE_PASSWORD")
//	debug, err := dotzen.Bool(secure, "DEBUG", dotzen.Encrypted(false))
//
// Defaults passed with Default are used as given and are never decrypted.
//
// Transforms are looked up by name in a Registry. base64 is reversible; md5,
// sha256 and bcrypt are one-way digests and cannot decrypt. None of them keep a
// secret confidential: dotzen is not a secrets manager. Custom transforms are
// added with RegisterStrategy or Registry.Register:
//
//	dotzen.RegisterStrategy("rot13", dotzen.ReversibleFuncs{EncryptFunc: rot13, DecryptFunc: rot13})
//
// # Structs
//
// Load fills a tagged struct through a Config:
//
//	type AppConfig struct {
//		Port       int      `env:"PORT" default:"8080"`
//		Debug      bool     `env:"DEBUG" default:"false"`
//		Hosts      []string `env:"ALLOWED_HOSTS"`
//		DBPassword string   `secret:"DATABASE_PASSWORD" encrypted:"true" required:"true"`
//	}
//
//	app, err := dotzen.Load(cfg, AppConfig{})
//	slog.Info("config loaded", "cfg", dotzen.PrettyString(app)) // secrets masked
//
// # Errors
//
// Lookups fail with *MissingKeyError (ErrMissingKey) when no source has the key
// and no default was given, *CastError (ErrCast) when the value does not
// convert, ErrUnknownAlgorithm, ErrUnsupportedOperation for decrypting a
// digest, and ErrDecode for malformed base64.
package dotzen
