// Package config loads searchstore settings.
//
// Settings come from an optional YAML file, a .env file and environment
// variables prefixed with SEARCHSTORE_, the latter taking precedence:
//
//	backend: elasticsearch
//	elasticsearch:
//	  hosts: http://es-1:9200, http://es-2:9200
//	scan:
//	  base_packages: [example.com/shop/repos]
//
// is equivalent to
//
//	SEARCHSTORE_ELASTICSEARCH_HOSTS="http://es-1:9200, http://es-2:9200"
//	SEARCHSTORE_SCAN_BASE_PACKAGES=example.com/shop/repos
package config
