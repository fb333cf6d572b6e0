/*
Package ports defines the driven ports (interfaces) for the espalier engine.

These interfaces decouple the machine registry from external
implementations, allowing definitions to live in memory, on disk, in Redis
or in SQLite without the engine knowing the difference.

# Key Interfaces

  - DefinitionLoader: read-only source of machine definitions (directories, memory).
  - MachineStore: mutable backend that persists definitions by name.
  - Registry: the engine surface that transport adapters (HTTP, MCP) drive.

The package also ships reusable contract suites so every adapter proves the
same behavior: RunMachineStoreContract here, the loader suite under
ports/tests.
*/
package ports
