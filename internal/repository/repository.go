package repository

// Package repository contains data access layer abstractions for documents.
// Implementations live in subpackages (e.g., postgres) inside this directory.
