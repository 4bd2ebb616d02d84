package compat

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type domainFile struct {
	Domains []Domain `yaml:"domains"`
}

// LoadDomains parses domains from a YAML document of the form:
//
//	domains:
//	  - name: 3d
//	    types: [mesh]
//	    accepts:
//	      mesh: [image]
func LoadDomains(r io.Reader) ([]Domain, error) {
	var file domainFile

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to decode port type domains: %w", err)
	}

	return file.Domains, nil
}

// LoadDomainsFile reads domains from a YAML file on disk.
func LoadDomainsFile(path string) ([]Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open port type file: %w", err)
	}
	defer f.Close()

	return LoadDomains(f)
}
